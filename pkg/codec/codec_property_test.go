package codec_test

import (
	"testing"

	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEncodeDecodeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("encoded messages decode to the same message", prop.ForAll(
		func(speaker, text string) bool {
			ev, err := codec.Decode(codec.EncodeMessage(speaker, text))
			return err == nil && ev == codec.Message{Speaker: speaker, Text: text}
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("encoded summaries decode to the same summary", prop.ForAll(
		func(speaker, text string) bool {
			ev, err := codec.Decode(codec.EncodeSummary(speaker, text))
			return err == nil && ev == codec.Summary{Speaker: speaker, Text: text}
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
