package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
)

func TestState_SetGetAndClear(t *testing.T) {
	st := state.New(nil)

	st.Set("draft", "text")
	assert.Equal(t, "text", st.GetString("draft"))

	st.Clear("draft")

	// Cleared keys stay present so templates referencing them resolve.
	v, ok := st.Get("draft")
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestState_SnapshotIsIsolated(t *testing.T) {
	st := state.New(map[state.Key]any{"a": "before"})

	snap := st.Snapshot()
	st.Set("a", "after")
	st.Set("b", "new")

	got, ok := snap.Lookup("a", "")
	require.True(t, ok)
	assert.Equal(t, "before", got)

	_, ok = snap.Lookup("b", "")
	assert.False(t, ok)
}

func TestState_MergeFoldsWritesBack(t *testing.T) {
	shared := state.New(map[state.Key]any{"base": "shared"})
	member := state.New(shared.Snapshot())

	member.Set("member_out", "result")
	shared.Merge(member.Snapshot())

	assert.Equal(t, "result", shared.GetString("member_out"))
	assert.Equal(t, "shared", shared.GetString("base"))
}

func TestState_TouchedSurvivesInstructionClearing(t *testing.T) {
	st := state.New(nil)

	st.Set(state.InstructionKey(schema.SectionMethods), "describe the setup")
	st.MarkTouched(schema.SectionMethods)
	st.Clear(state.InstructionKey(schema.SectionMethods))

	assert.True(t, st.Touched(schema.SectionMethods))
	assert.False(t, st.Touched(schema.SectionTitle))
	assert.Equal(t, []schema.Section{schema.SectionMethods}, st.TouchedSections())
}

func TestState_AppendFigureAssignsSequentialNumbers(t *testing.T) {
	st := state.New(nil)

	first := st.AppendFigure(schema.FigureDescription{
		// The model's own numbering is discarded.
		FigureNumber: 99,
		Title:        "Throughput",
		Description:  "Throughput over time.",
	})
	second := st.AppendFigure(schema.FigureDescription{
		FigureNumber: 0,
		Title:        "Latency",
		Description:  "Latency distribution.",
	})

	assert.Equal(t, 1, first.FigureNumber)
	assert.Equal(t, 2, second.FigureNumber)
	require.Len(t, st.Figures(), 2)

	rendered := st.RenderFigureDescriptions()
	assert.Contains(t, rendered, "Figure 1: Throughput")
	assert.Contains(t, rendered, "Figure 2: Latency")
}

func TestSnapshot_LookupDescendsIntoManuscript(t *testing.T) {
	st := state.New(nil)
	st.Set(state.KeyInstructions, &schema.Manuscript{Title: "name the method"})

	got, ok := st.Snapshot().Lookup("instructions", "title")
	require.True(t, ok)
	assert.Equal(t, "name the method", got)

	_, ok = st.Snapshot().Lookup("instructions", "not_a_section")
	assert.False(t, ok)
}
