// Package interpreter turns a free-form author request into per-section
// drafting instructions. Pre-structured markdown outlines are split
// deterministically; everything else goes through the model behind the
// manuscript contract.
package interpreter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

// New builds the interpreter subtree.
func New(model providers.Provider, modelName string) *flow.Node {
	// The outline split writes the structured record itself; an output key
	// here would clobber it with the rendered string.
	outlineLeaf := flow.NewLeaf("interpreter.outline", &flow.Leaf{
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			m, _ := ParseOutline(rt.Input.Text)
			rt.State.Set(state.KeyInstructions, m)

			rendered, err := json.Marshal(m)
			if err != nil {
				return "", err
			}

			return string(rendered), nil
		},
		After: Split,
	})

	modelLeaf := flow.NewLeaf("interpreter.model", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: interpreterPrompt,
		Contract:    schema.ManuscriptContract(),
		OutputKey:   state.KeyInstructions,
		After:       Split,
	})

	return flow.NewRouter("interpreter",
		flow.Route{
			Name: "outline",
			When: func(in flow.Input) bool {
				_, ok := ParseOutline(in.Text)
				return ok
			},
			Target: outlineLeaf,
		},
		flow.Route{
			Name:   "model",
			When:   func(flow.Input) bool { return true },
			Target: modelLeaf,
		},
	)
}

// Split fans the interpreted record out into per-section instruction keys
// and marks requested sections. Drafts and instruction slots for unrequested
// sections are filled with "" so downstream templates always resolve.
func Split(rt *flow.Runtime, output string) (string, error) {
	manuscript := instructionsFrom(rt.State)

	for _, section := range schema.Sections() {
		instructions := strings.TrimSpace(manuscript.Get(section))
		rt.State.Set(state.InstructionKey(section), instructions)

		if instructions != "" {
			rt.State.MarkTouched(section)
		}

		if _, ok := rt.State.Get(state.SectionKey(section)); !ok {
			rt.State.Clear(state.SectionKey(section))
		}
	}

	rt.State.Set(state.KeyFigureDescriptions, rt.State.RenderFigureDescriptions())

	return output, nil
}

func instructionsFrom(st *state.State) *schema.Manuscript {
	v, ok := st.Get(state.KeyInstructions)
	if !ok {
		return &schema.Manuscript{}
	}

	switch m := v.(type) {
	case *schema.Manuscript:
		if m == nil {
			return &schema.Manuscript{}
		}
		return m
	case schema.Manuscript:
		return &m
	}

	return &schema.Manuscript{}
}
