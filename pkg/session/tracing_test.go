package session_test

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/cinechat/pkg/indicator"
	"github.com/killallgit/cinechat/pkg/session"
	"github.com/killallgit/cinechat/pkg/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var _ = Describe("Session tracing", func() {
	var (
		fake     *testutil.FakeTransport
		recorder *tracetest.SpanRecorder
		ctrl     *session.Controller
	)

	eventNames := func(span sdktrace.ReadOnlySpan) []string {
		var names []string
		for _, ev := range span.Events() {
			names = append(names, ev.Name)
		}
		return names
	}

	endedSpans := func() int { return len(recorder.Ended()) }

	BeforeEach(func() {
		fake = testutil.NewFakeTransport()
		recorder = tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		ctrl = session.New(fake,
			session.WithTracerProvider(provider),
			session.WithTicker(indicator.New(time.Hour)))
	})

	AfterEach(func() {
		ctrl.Stop()
	})

	It("should record one span per completed session", func() {
		Expect(ctrl.Start(context.Background(), "hi", session.Parameters{
			Genres:     []string{"SF"},
			Characters: []string{"Host", "Critic"},
		})).To(Succeed())
		stream, err := fake.WaitForStream(time.Second)
		Expect(err).ToNot(HaveOccurred())

		stream.SendMessage("Host", "Hi")
		stream.SendSummary("Host", "wants SF")
		stream.SendRaw("", "garbage")
		stream.SendEnd()
		Eventually(endedSpans).Should(Equal(1))

		span := recorder.Ended()[0]
		Expect(span.Name()).To(Equal("chat.session"))
		Expect(span.Status().Code).To(Equal(codes.Ok))
		Expect(eventNames(span)).To(Equal([]string{"message", "summary", "decode_error"}))
		Expect(span.Attributes()).To(ContainElement(attribute.String("session.id", ctrl.SessionID())))
		Expect(span.Attributes()).To(ContainElement(attribute.Int("session.genres", 1)))
		Expect(span.Attributes()).To(ContainElement(attribute.StringSlice("session.characters", []string{"Host", "Critic"})))
	})

	It("should mark failed sessions as errors", func() {
		Expect(ctrl.Start(context.Background(), "hi", session.Parameters{})).To(Succeed())
		stream, err := fake.WaitForStream(time.Second)
		Expect(err).ToNot(HaveOccurred())

		stream.Fail(errors.New("connection reset"))
		Eventually(endedSpans).Should(Equal(1))

		span := recorder.Ended()[0]
		Expect(span.Status().Code).To(Equal(codes.Error))
		Expect(span.Status().Description).To(Equal("connection reset"))
	})

	It("should flag stopped sessions", func() {
		Expect(ctrl.Start(context.Background(), "hi", session.Parameters{})).To(Succeed())
		_, err := fake.WaitForStream(time.Second)
		Expect(err).ToNot(HaveOccurred())

		ctrl.Stop()
		Expect(recorder.Ended()).To(HaveLen(1))
		Expect(recorder.Ended()[0].Attributes()).To(ContainElement(attribute.Bool("session.stopped", true)))
	})
})
