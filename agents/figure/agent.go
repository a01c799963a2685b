// Package figure interprets an attached image into a structured figure
// description and folds it into the session's figure store. Figure numbers
// are assigned by arrival order in the store; whatever number the model
// emits is discarded.
package figure

import (
	"fmt"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

const figurePrompt = `You are describing a figure for a scientific
manuscript. Examine the attached image together with any caption or context
the author provided.

Respond with only a JSON object:
{"figure_number": 0, "title": "...", "description": "..."}

The title is one short line. The description covers what the figure shows,
its axes or panels, and the finding it supports, in enough detail that prose
can reference it without seeing the image. No code fences.`

// New builds the figure interpretation unit.
func New(model providers.Provider, modelName string) *flow.Node {
	return flow.NewLeaf("figure", &flow.Leaf{
		Model:        model,
		ModelName:    modelName,
		Instruction:  figurePrompt,
		IncludeInput: true,
		Contract:     schema.FigureContract(),
		OutputKey:    state.KeyCurrentFigure,
		After:        registerFigure,
	})
}

// registerFigure moves the validated description from the scratch slot into
// the numbered store and refreshes the prompt-ready rendering.
func registerFigure(rt *flow.Runtime, output string) (string, error) {
	v, ok := rt.State.Get(state.KeyCurrentFigure)
	if !ok {
		return "", qerrors.New(qerrors.CategoryValidation, "figure", "no figure description produced")
	}

	fd, ok := v.(*schema.FigureDescription)
	if !ok || fd == nil {
		return "", qerrors.New(qerrors.CategoryValidation, "figure", "figure description has wrong shape")
	}

	stored := rt.State.AppendFigure(*fd)
	rt.State.Clear(state.KeyCurrentFigure)
	rt.State.Set(state.KeyFigureDescriptions, rt.State.RenderFigureDescriptions())

	return fmt.Sprintf("Registered figure %d: %s", stored.FigureNumber, stored.Title), nil
}
