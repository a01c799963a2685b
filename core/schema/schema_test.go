package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/core/schema"
)

func TestManuscript_AbsentSectionsAreEmptyStrings(t *testing.T) {
	m := &schema.Manuscript{Results: "we measured things"}

	assert.Equal(t, "", m.Get(schema.SectionTitle))
	assert.Equal(t, []schema.Section{schema.SectionResults}, m.Requested())
	assert.False(t, m.Empty())
	assert.True(t, (&schema.Manuscript{}).Empty())
}

func TestDraftOrder_EndsWithAbstractAndTitle(t *testing.T) {
	order := schema.DraftOrder()

	require.Len(t, order, 6)
	assert.Equal(t, schema.SectionIntroduction, order[0])
	assert.Equal(t, schema.SectionAbstract, order[4])
	assert.Equal(t, schema.SectionTitle, order[5])
}

func TestManuscriptContract_DecodesFencedOutput(t *testing.T) {
	raw := "```json\n{\"title\": \"A Method\", \"abstract\": \"\", \"introduction\": \"intro\", \"results\": \"\", \"discussion\": \"\", \"methods\": \"\"}\n```"

	v, err := schema.ManuscriptContract().Decode(raw)
	require.NoError(t, err)

	m, ok := v.(*schema.Manuscript)
	require.True(t, ok)
	assert.Equal(t, "A Method", m.Title)
	assert.Equal(t, "intro", m.Introduction)
}

func TestManuscriptContract_ToleratesUnknownFields(t *testing.T) {
	raw := `{"title": "A Method", "confidence": 0.9}`

	v, err := schema.ManuscriptContract().Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "A Method", v.(*schema.Manuscript).Title)
}

func TestManuscriptContract_RejectsNonJSON(t *testing.T) {
	_, err := schema.ManuscriptContract().Decode("Sure! Here are the sections you asked for.")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "manuscript contract")
}

func TestFigureContract_RejectsEmptyDescription(t *testing.T) {
	_, err := schema.FigureContract().Decode(`{"figure_number": 1, "title": "Latency", "description": "  "}`)

	require.Error(t, err)
}

func TestFigureContract_DecodesValidFigure(t *testing.T) {
	v, err := schema.FigureContract().Decode(`{"figure_number": 1, "title": "Latency", "description": "Latency distribution."}`)

	require.NoError(t, err)
	fd := v.(*schema.FigureDescription)
	assert.Equal(t, "Latency", fd.Title)
}

func TestStripFences_PassesPlainTextThrough(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, schema.StripFences("\n```\n{\"a\": 1}\n```\n"))
	assert.Equal(t, "no fences here", schema.StripFences("no fences here"))
}
