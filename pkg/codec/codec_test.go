package codec_test

import (
	"errors"
	"testing"

	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/sse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCodec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Codec Suite")
}

var _ = Describe("Decode", func() {
	decodeData := func(data string) (codec.Event, error) {
		return codec.Decode(sse.Event{Data: data})
	}

	Describe("default channel", func() {
		It("should decode a regular message", func() {
			ev, err := decodeData(`{"last_speaker":"A","text":"hello","is_summary":false}`)

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "A", Text: "hello"}))
			Expect(ev.Kind()).To(Equal(codec.KindMessage))
		})

		It("should decode a summary", func() {
			ev, err := decodeData(`{"last_speaker":"A","text":"hello","is_summary":true}`)

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Summary{Speaker: "A", Text: "hello"}))
		})

		It("should treat an absent summary flag as a message", func() {
			ev, err := decodeData(`{"last_speaker":"Host","text":"Hi"}`)

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "Host", Text: "Hi"}))
		})

		It("should treat a null summary flag as a message", func() {
			ev, err := decodeData(`{"last_speaker":"Host","text":"Hi","is_summary":null}`)

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "Host", Text: "Hi"}))
		})

		It("should ignore unknown fields", func() {
			ev, err := decodeData(`{"last_speaker":"Host","text":"Hi","is_summary":false,"mood":"calm"}`)

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "Host", Text: "Hi"}))
		})

		It("should accept the explicit message event name", func() {
			ev, err := codec.Decode(sse.Event{Name: "message", Data: `{"last_speaker":"A","text":"x"}`})

			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "A", Text: "x"}))
		})
	})

	Describe("terminal signal", func() {
		It("should decode the end event regardless of data", func() {
			ev, err := codec.Decode(sse.Event{Name: "end", Data: "END_OF_STREAM"})
			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.End{Data: "END_OF_STREAM"}))

			ev, err = codec.Decode(sse.Event{Name: "end"})
			Expect(err).ToNot(HaveOccurred())
			Expect(ev.Kind()).To(Equal(codec.KindEnd))
		})
	})

	DescribeTable("malformed payloads",
		func(raw sse.Event) {
			ev, err := codec.Decode(raw)

			Expect(ev).To(BeNil())
			var decodeErr *codec.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Data).To(Equal(raw.Data))
		},
		Entry("not JSON", sse.Event{Data: "not json"}),
		Entry("empty data", sse.Event{Data: ""}),
		Entry("truncated JSON", sse.Event{Data: `{"last_speaker":"A","text":`}),
		Entry("JSON array", sse.Event{Data: `["A","hello"]`}),
		Entry("missing speaker", sse.Event{Data: `{"text":"hello"}`}),
		Entry("missing text", sse.Event{Data: `{"last_speaker":"A"}`}),
		Entry("null speaker", sse.Event{Data: `{"last_speaker":null,"text":"hello"}`}),
		Entry("numeric text", sse.Event{Data: `{"last_speaker":"A","text":42}`}),
		Entry("string summary flag", sse.Event{Data: `{"last_speaker":"A","text":"x","is_summary":"yes"}`}),
		Entry("unknown event name", sse.Event{Name: "ping", Data: `{"last_speaker":"A","text":"x"}`}),
	)

	Describe("encoding", func() {
		It("should round trip messages and summaries", func() {
			ev, err := codec.Decode(codec.EncodeMessage("A", "hello"))
			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Message{Speaker: "A", Text: "hello"}))

			ev, err = codec.Decode(codec.EncodeSummary("A", "likes <SF> & comedy"))
			Expect(err).ToNot(HaveOccurred())
			Expect(ev).To(Equal(codec.Summary{Speaker: "A", Text: "likes <SF> & comedy"}))
		})

		It("should encode the wire field names", func() {
			raw := codec.EncodeMessage("Host", "Hi")

			Expect(raw.Name).To(BeEmpty())
			Expect(raw.Data).To(MatchJSON(`{"last_speaker":"Host","text":"Hi","is_summary":false}`))
		})

		It("should encode the terminal event", func() {
			Expect(codec.EncodeEnd()).To(Equal(sse.Event{Name: "end", Data: "END_OF_STREAM"}))
		})
	})
})
