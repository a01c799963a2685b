// Package drafter writes manuscript sections from the interpreter's
// per-section instructions. Sections draft in dependency order so the
// abstract and title can summarize finished prose; a section without
// instructions is skipped, and its existing draft survives untouched.
package drafter

import (
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

// New builds the section drafting pipeline.
func New(model providers.Provider, modelName string) *flow.Node {
	children := make([]*flow.Node, 0, len(schema.DraftOrder()))

	for _, section := range schema.DraftOrder() {
		node := flow.NewLeaf("drafter."+string(section), &flow.Leaf{
			Model:       model,
			ModelName:   modelName,
			Instruction: sectionPrompt(section),
			OutputKey:   state.SectionKey(section),
			After:       consumeInstructions(section),
		})

		node.Guard = sectionRequested(section)
		children = append(children, node)
	}

	return flow.NewSequence("drafter", children...)
}

// sectionRequested skips sections whose instruction slot is blank.
func sectionRequested(section schema.Section) func(st *state.State) bool {
	return func(st *state.State) bool {
		return strings.TrimSpace(st.GetString(state.InstructionKey(section))) != ""
	}
}

// consumeInstructions marks the section as requested and blanks its
// instruction slot, so a later pass over the same state does not re-draft a
// section nobody asked about again.
func consumeInstructions(section schema.Section) func(rt *flow.Runtime, output string) (string, error) {
	return func(rt *flow.Runtime, output string) (string, error) {
		rt.State.MarkTouched(section)
		rt.State.Clear(state.InstructionKey(section))

		return output, nil
	}
}
