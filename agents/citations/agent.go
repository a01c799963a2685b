// Package citations enriches a drafted manuscript with references: extract
// the topics the text leans on, search the literature for each, and rewrite
// the draft citing what was found. Searches are best effort; an unreachable
// index degrades to fewer citations, never a failed run.
package citations

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// maxTopics bounds how many extracted topics are searched.
const maxTopics = 5

// Gather builds the retrieval half of the workflow: topics from the draft,
// then literature results for each. It writes only topic and search keys, so
// it can run alongside other gatherers.
func Gather(model providers.Provider, modelName string, searcher *tools.LiteratureSearcher) *flow.Node {
	topics := flow.NewLeaf("citations.topics", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: topicsPrompt,
		OutputKey:   state.KeyTopicsText,
	})

	parse := flow.NewLeaf("citations.parse", &flow.Leaf{
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			list := tools.ParseList(rt.State.GetString(state.KeyTopicsText))
			if len(list) > maxTopics {
				list = list[:maxTopics]
			}

			rt.State.Set(state.KeyTopics, list)

			return strings.Join(list, "\n"), nil
		},
	})

	search := flow.NewLeaf("citations.search", &flow.Leaf{
		OutputKey: state.KeySearchResults,
		Func: func(ctx context.Context, rt *flow.Runtime) (string, error) {
			list, _ := rt.State.Get(state.KeyTopics)
			topicList, _ := list.([]string)

			return renderSearchResults(ctx, searcher, topicList), nil
		},
	})

	return flow.NewSequence("citations.gather", topics, parse, search)
}

// New builds the full citation workflow: gather, then rewrite the draft.
func New(model providers.Provider, modelName string, searcher *tools.LiteratureSearcher) *flow.Node {
	improve := flow.NewLeaf("citations.improve", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: improvePrompt,
		OutputKey:   state.KeyEnhancedDraft,
		After: func(rt *flow.Runtime, output string) (string, error) {
			rt.State.Set(state.KeyFullManuscript, output)
			return output, nil
		},
	})

	return flow.NewSequence("citations",
		Gather(model, modelName, searcher),
		improve,
	)
}

// renderSearchResults queries each topic and flattens the hits into a
// prompt-ready block. Per-topic failures are noted inline and skipped.
func renderSearchResults(ctx context.Context, searcher *tools.LiteratureSearcher, topics []string) string {
	var b strings.Builder

	for _, topic := range topics {
		works, err := searcher.Search(ctx, topic)
		if err != nil {
			fmt.Fprintf(&b, "Topic: %s\n  (search unavailable: %v)\n\n", topic, err)
			continue
		}

		fmt.Fprintf(&b, "Topic: %s\n", topic)

		if len(works) == 0 {
			b.WriteString("  (no results)\n")
		}

		for _, w := range works {
			fmt.Fprintf(&b, "  - Title: %s\n    DOI: %s\n    Abstract: %s\n", w.Title, w.DOI, w.Abstract)
		}

		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "(no topics extracted)"
	}

	return strings.TrimSpace(b.String())
}
