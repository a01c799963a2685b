// Package retraction checks a draft against a corpus of retraction notices:
// synthesize what the draft's abstract would be, retrieve notices for
// similar papers, and revise the draft to avoid the flaws that got them
// pulled.
package retraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
)

// retrievedNotices bounds how many notices feed the revision prompt.
const retrievedNotices = 5

// Gather builds the retrieval half: synthesize an abstract, pull similar
// notices. It writes only its own keys, so it can run alongside other
// gatherers.
func Gather(model providers.Provider, modelName string, store *Store) *flow.Node {
	synthesize := flow.NewLeaf("retraction.synthesize", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: synthesizePrompt,
		OutputKey:   state.KeySynthesizedAbstract,
	})

	retrieve := flow.NewLeaf("retraction.retrieve", &flow.Leaf{
		OutputKey: state.KeyRetractionNotices,
		Func: func(ctx context.Context, rt *flow.Runtime) (string, error) {
			abstract := rt.State.GetString(state.KeySynthesizedAbstract)

			notices, err := store.Search(ctx, abstract, retrievedNotices)
			if err != nil {
				// Retrieval is enrichment; degrade rather than fail.
				return fmt.Sprintf("(retraction lookup unavailable: %v)", err), nil
			}

			return renderNotices(notices), nil
		},
	})

	return flow.NewSequence("retraction.gather", synthesize, retrieve)
}

// New builds the full workflow: gather, then revise the draft.
func New(model providers.Provider, modelName string, store *Store) *flow.Node {
	improve := flow.NewLeaf("retraction.improve", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: improvePrompt,
		OutputKey:   state.KeyEnhancedDraft,
		After: func(rt *flow.Runtime, output string) (string, error) {
			rt.State.Set(state.KeyFullManuscript, output)
			return output, nil
		},
	})

	return flow.NewSequence("retraction",
		Gather(model, modelName, store),
		improve,
	)
}

func renderNotices(notices []Notice) string {
	if len(notices) == 0 {
		return "(no similar retraction notices found)"
	}

	var b strings.Builder
	for _, n := range notices {
		fmt.Fprintf(&b, "Title: %s\nReason for retraction: %s\nAbstract: %s\n\n", n.Title, n.Reason, n.Abstract)
	}

	return strings.TrimSpace(b.String())
}
