package retraction_test

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/agents/retraction"
)

// hashEmbedder is a deterministic stand-in embedder: identical strings get
// identical vectors, so exact-match retrieval ranks first.
type hashEmbedder struct{}

func (hashEmbedder) Dimension() int { return 8 }

func (hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 8)
		for j := range vec {
			h := fnv.New32a()
			h.Write([]byte{byte(j)})
			h.Write([]byte(text))
			vec[j] = float32(h.Sum32()%1000) / 1000
		}
		out[i] = vec
	}
	return out, nil
}

func sampleNotices() []retraction.Notice {
	return []retraction.Notice{
		{
			ID:       "n1",
			Title:    "Superluminal neutrino detection",
			Abstract: "We report neutrinos travelling faster than light.",
			Reason:   "Instrument cable was loose; effect not reproducible.",
		},
		{
			ID:       "n2",
			Title:    "Room temperature superconductivity in hydrides",
			Abstract: "We observe zero resistance at ambient conditions.",
			Reason:   "Data fabrication in resistance measurements.",
		},
		{
			ID:       "n3",
			Title:    "Gut microbiome predicts personality",
			Abstract: "Microbial taxa correlate with personality traits.",
			Reason:   "Uncorrected multiple comparisons; claims overstated.",
		},
	}
}

func TestStore_KeywordOnlySearch(t *testing.T) {
	store, err := retraction.NewStore(nil)
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), sampleNotices()...))
	assert.Equal(t, 3, store.Len())

	got, err := store.Search(context.Background(), "superconductivity resistance measurements", 2)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, "n2", got[0].ID)
}

func TestStore_HybridSearchUsesEmbeddings(t *testing.T) {
	store, err := retraction.NewStore(hashEmbedder{})
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), sampleNotices()...))

	got, err := store.Search(context.Background(), "neutrinos faster than light", 3)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, "n1", got[0].ID)
}

func TestStore_EmptyQueryReturnsNothing(t *testing.T) {
	store, err := retraction.NewStore(nil)
	require.NoError(t, err)
	require.NoError(t, store.Add(context.Background(), sampleNotices()...))

	got, err := store.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadDir_ReadsJSONFiles(t *testing.T) {
	dir := t.TempDir()

	raw, err := json.Marshal(sampleNotices())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notices.json"), raw, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	notices, err := retraction.LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, notices, 3)
}
