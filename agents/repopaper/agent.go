// Package repopaper turns a software repository into manuscript drafting
// instructions: clone it, read its contents, summarize what it does, and
// derive per-section instructions the drafting pipeline can run with.
package repopaper

import (
	"net/http"

	"github.com/hyper-light/quill/agents/interpreter"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// Options tunes the exploration unit.
type Options struct {
	ToolRetries int
	HTTPClient  *http.Client
}

// New builds the repository exploration pipeline.
func New(model providers.Provider, modelName string, opts Options) *flow.Node {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	explore := flow.NewLeaf("repopaper.explore", &flow.Leaf{
		Model:        model,
		ModelName:    modelName,
		Instruction:  explorePrompt,
		IncludeInput: true,
		Tools: tools.NewRegistry(
			tools.NewCloneRepositoryTool(),
			tools.NewReadPathContentsTool(),
			tools.NewFetchURLTool(client),
		),
		ToolRetries: opts.ToolRetries,
		OutputKey:   state.KeyRepoSummary,
	})

	instruct := flow.NewLeaf("repopaper.instruct", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: instructPrompt,
		Contract:    schema.ManuscriptContract(),
		OutputKey:   state.KeyInstructions,
		After:       interpreter.Split,
	})

	return flow.NewSequence("repopaper", explore, instruct)
}
