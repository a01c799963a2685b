package interpreter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/agents/interpreter"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

type scriptedModel struct {
	content  string
	requests int
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) Generate(context.Context, *providers.Request) (*providers.Response, error) {
	m.requests++
	return &providers.Response{
		Content:    m.content,
		StopReason: providers.StopReasonEndTurn,
	}, nil
}

func newRuntime(text string) *flow.Runtime {
	st := state.New(nil)
	st.Set(state.KeyLastUserInput, text)

	return &flow.Runtime{
		State:  st,
		Stream: events.NewStream("test-run"),
		Input:  flow.Input{Text: text},
	}
}

// =============================================================================
// Outline Parsing
// =============================================================================

func TestParseOutline_SplitsSectionHeadings(t *testing.T) {
	input := `# Introduction

Explain why load shedding matters.

## Methods

Describe the token bucket variant.

# Methods

Also describe the benchmark harness.`

	m, ok := interpreter.ParseOutline(input)
	require.True(t, ok)

	assert.Contains(t, m.Introduction, "load shedding matters")
	assert.Contains(t, m.Methods, "token bucket variant")
	// A repeated heading concatenates.
	assert.Contains(t, m.Methods, "benchmark harness")
	assert.Empty(t, m.Title)
}

func TestParseOutline_RejectsNonSectionHeadings(t *testing.T) {
	_, ok := interpreter.ParseOutline("# Background\n\nsome text")
	assert.False(t, ok)
}

func TestParseOutline_RejectsProse(t *testing.T) {
	_, ok := interpreter.ParseOutline("write a paper about load shedding")
	assert.False(t, ok)

	_, ok = interpreter.ParseOutline("preamble first\n\n# Methods\n\ndetails")
	assert.False(t, ok)
}

// =============================================================================
// Interpretation
// =============================================================================

func TestInterpreter_OutlineInputSkipsModel(t *testing.T) {
	model := &scriptedModel{content: "should not be used"}
	node := interpreter.New(model, "")

	rt := newRuntime("# Results\n\nReport the throughput numbers.")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Zero(t, model.requests)
	assert.Contains(t, rt.State.GetString(state.InstructionKey(schema.SectionResults)), "throughput numbers")
	assert.True(t, rt.State.Touched(schema.SectionResults))
}

func TestInterpreter_ModelPathSplitsInstructions(t *testing.T) {
	model := &scriptedModel{
		content: `{"title": "", "abstract": "", "introduction": "motivate caching", "results": "", "discussion": "", "methods": "describe eviction"}`,
	}
	node := interpreter.New(model, "")

	rt := newRuntime("write about caching, mention eviction in methods")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, 1, model.requests)
	assert.Equal(t, "motivate caching", rt.State.GetString(state.InstructionKey(schema.SectionIntroduction)))
	assert.Equal(t, "describe eviction", rt.State.GetString(state.InstructionKey(schema.SectionMethods)))

	// Unmentioned sections get empty instruction slots and empty drafts.
	assert.Equal(t, "", rt.State.GetString(state.InstructionKey(schema.SectionTitle)))
	v, ok := rt.State.Get(state.SectionKey(schema.SectionTitle))
	require.True(t, ok)
	assert.Equal(t, "", v)

	assert.True(t, rt.State.Touched(schema.SectionIntroduction))
	assert.False(t, rt.State.Touched(schema.SectionTitle))
}

func TestInterpreter_ExistingDraftsSurvive(t *testing.T) {
	model := &scriptedModel{
		content: `{"title": "", "abstract": "", "introduction": "", "results": "", "discussion": "", "methods": "expand the methods"}`,
	}
	node := interpreter.New(model, "")

	rt := newRuntime("expand the methods")
	rt.State.Set(state.SectionKey(schema.SectionIntroduction), "existing intro draft")

	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, "existing intro draft", rt.State.GetString(state.SectionKey(schema.SectionIntroduction)))
}
