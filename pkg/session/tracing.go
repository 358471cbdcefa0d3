package session

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/killallgit/cinechat/pkg/session"
	spanName   = "chat.session"
)

// sessionSpan wraps the span covering one session. A nil *sessionSpan is a
// valid no-op.
type sessionSpan struct {
	span trace.Span
}

func startSessionSpan(ctx context.Context, tp trace.TracerProvider, id string, params Parameters) (context.Context, *sessionSpan) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(tracerName).Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.Int("session.genres", len(params.Genres)),
			attribute.Int("session.seen_works", len(params.SeenWorks)),
			attribute.StringSlice("session.characters", params.Characters),
		),
	)
	return ctx, &sessionSpan{span: span}
}

func (s *sessionSpan) event(name, speaker string) {
	if s == nil {
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(attribute.String("speaker", speaker)))
}

func (s *sessionSpan) decodeError(err error) {
	if s == nil {
		return
	}
	s.span.AddEvent("decode_error", trace.WithAttributes(attribute.String("error", err.Error())))
}

// finish ends the span according to how the session left Streaming.
func (s *sessionSpan) finish(state State, err error) {
	if s == nil {
		return
	}
	switch state {
	case Ended:
		s.span.SetStatus(codes.Ok, "")
	case Errored:
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		} else {
			s.span.SetStatus(codes.Error, "stream failed")
		}
	case Idle:
		s.span.SetAttributes(attribute.Bool("session.stopped", true))
	}
	s.span.End()
}
