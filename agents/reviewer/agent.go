// Package reviewer implements the critique/refine loop: a reviewer unit
// writes feedback on the assembled manuscript, a refiner unit applies it,
// and the loop repeats until the reviewer signs off or the iteration cap is
// reached. Hitting the cap is not a failure; the last refinement stands.
package reviewer

import (
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// Options tunes the loop.
type Options struct {
	MaxIterations int
	ToolRetries   int
}

// New builds the critique/refine loop.
func New(model providers.Provider, modelName string, opts Options) *flow.Node {
	critic := flow.NewLeaf("reviewer.critic", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: critiquePrompt,
		OutputKey:   state.KeyFeedback,
	})

	refiner := flow.NewLeaf("reviewer.refiner", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: refinePrompt,
		Tools: tools.NewRegistry(
			tools.NewExitLoopTool(state.KeyFeedback, CompletionPhrase),
		),
		ToolRetries: opts.ToolRetries,
		OutputKey:   state.KeyRefined,
		After: func(rt *flow.Runtime, output string) (string, error) {
			rt.State.Set(state.KeyFullManuscript, output)
			return output, nil
		},
	})

	// The critic's sign-off makes another refinement pointless.
	refiner.Guard = func(st *state.State) bool {
		return strings.TrimSpace(st.GetString(state.KeyFeedback)) != CompletionPhrase
	}

	return flow.NewLoop("reviewer", &flow.Loop{
		Body:          []*flow.Node{critic, refiner},
		MaxIterations: opts.MaxIterations,
		Stop: &flow.StopCondition{
			Key:      state.KeyFeedback,
			Sentinel: CompletionPhrase,
		},
	})
}
