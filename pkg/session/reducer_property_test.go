package session

import (
	"testing"

	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertySpeakers = []string{"Host", "Critic", "Fan"}

func streamingSnapshot(speakers ...string) Snapshot {
	return Snapshot{State: Streaming, Whiteboard: NewWhiteboard("(unanswered)", speakers...)}
}

func TestWhiteboardFoldProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("summaries replace the sentinel then append", prop.ForAll(
		func(texts []string) bool {
			snap := streamingSnapshot("A")
			for _, text := range texts {
				snap = Apply(snap, codec.Summary{Speaker: "A", Text: text})
			}

			opinions, ok := snap.Whiteboard.Opinions("A")
			if !ok {
				return false
			}
			if len(texts) == 0 {
				return len(opinions) == 1 && snap.Whiteboard.IsPending("A")
			}
			if len(opinions) != len(texts) || opinions[0] == snap.Whiteboard.Sentinel() {
				return false
			}
			for i := range texts {
				if opinions[i] != texts[i] {
					return false
				}
			}
			return snap.Conversation.Len() == 0
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestConversationOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("the log holds exactly the messages in delivery order", prop.ForAll(
		func(summaries []bool, who []int, texts []string) bool {
			n := min(len(summaries), len(who), len(texts))

			snap := streamingSnapshot(propertySpeakers...)
			var expected []Entry
			summaryCount := map[string]int{}
			for i := 0; i < n; i++ {
				speaker := propertySpeakers[who[i]]
				if summaries[i] {
					snap = Apply(snap, codec.Summary{Speaker: speaker, Text: texts[i]})
					summaryCount[speaker]++
					continue
				}
				snap = Apply(snap, codec.Message{Speaker: speaker, Text: texts[i]})
				expected = append(expected, Entry{Speaker: speaker, Text: texts[i]})
			}

			got := snap.Conversation.Entries()
			if len(got) != len(expected) {
				return false
			}
			for i := range expected {
				if got[i] != expected[i] {
					return false
				}
			}
			for _, speaker := range propertySpeakers {
				opinions, _ := snap.Whiteboard.Opinions(speaker)
				if len(opinions) != max(1, summaryCount[speaker]) {
					return false
				}
			}
			if len(expected) > 0 {
				return snap.ThinkingAgent == expected[len(expected)-1].Speaker
			}
			return snap.ThinkingAgent == ""
		},
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.IntRange(0, len(propertySpeakers)-1)),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
