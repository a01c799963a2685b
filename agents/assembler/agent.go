// Package assembler folds drafted sections into one markdown document. It is
// a pure unit: no model call, deterministic output. Sections never requested
// in the session are omitted entirely rather than rendered as placeholders.
package assembler

import (
	"context"
	"strings"

	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

// New builds the assembler unit.
func New() *flow.Node {
	return flow.NewLeaf("assembler", &flow.Leaf{
		OutputKey: state.KeyFullManuscript,
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			return Assemble(rt.State), nil
		},
	})
}

// Assemble renders the manuscript from the session state. A section appears
// when it was requested this session or carries a draft from an earlier one.
func Assemble(st *state.State) string {
	var b strings.Builder

	for _, section := range schema.Sections() {
		draft := strings.TrimSpace(st.GetString(state.SectionKey(section)))
		if draft == "" {
			continue
		}

		if section == schema.SectionTitle {
			b.WriteString("# " + draft + "\n\n")
			continue
		}

		b.WriteString(section.Heading() + "\n\n" + draft + "\n\n")
	}

	return strings.TrimSpace(b.String())
}
