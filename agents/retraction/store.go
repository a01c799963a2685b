package retraction

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/viterin/vek/vek32"

	"github.com/hyper-light/quill/core/providers"
)

// Notice is one retraction record from the dataset: the retracted work and
// why it was pulled.
type Notice struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Reason   string `json:"reason"`
}

// Store retrieves retraction notices similar to a query abstract. Retrieval
// is hybrid: a keyword index always participates, and when an embedder is
// available a dense pass runs alongside it. Scores from the two passes are
// rank-fused, so neither scale has to be calibrated against the other.
type Store struct {
	index    bleve.Index
	embedder providers.Embedder

	mu      sync.RWMutex
	notices map[string]Notice
	vectors map[string][]float32
}

// NewStore creates an empty in-memory store. The embedder may be nil, which
// degrades retrieval to keyword-only.
func NewStore(embedder providers.Embedder) (*Store, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	return &Store{
		index:    index,
		embedder: embedder,
		notices:  make(map[string]Notice),
		vectors:  make(map[string][]float32),
	}, nil
}

// Len returns the number of indexed notices.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notices)
}

// Add indexes notices for retrieval.
func (s *Store) Add(ctx context.Context, notices ...Notice) error {
	if len(notices) == 0 {
		return nil
	}

	var vectors [][]float32
	if s.embedder != nil {
		texts := make([]string, len(notices))
		for i, n := range notices {
			texts[i] = n.Title + "\n" + n.Abstract
		}

		embedded, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed notices: %w", err)
		}
		if len(embedded) != len(notices) {
			return fmt.Errorf("embedder returned %d vectors for %d notices", len(embedded), len(notices))
		}

		vectors = embedded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range notices {
		if n.ID == "" {
			n.ID = fmt.Sprintf("notice-%d", len(s.notices)+1)
		}

		if err := s.index.Index(n.ID, n); err != nil {
			return fmt.Errorf("index notice %s: %w", n.ID, err)
		}

		s.notices[n.ID] = n
		if vectors != nil {
			s.vectors[n.ID] = vectors[i]
		}
	}

	return nil
}

// Search returns up to k notices most similar to the query text.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Notice, error) {
	if k < 1 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	keywordRanks, err := s.keywordRanks(query, k)
	if err != nil {
		return nil, err
	}

	denseRanks, err := s.denseRanks(ctx, query, k)
	if err != nil {
		return nil, err
	}

	// Reciprocal rank fusion across the two passes.
	const fusionOffset = 60.0

	scores := make(map[string]float64)
	for id, rank := range keywordRanks {
		scores[id] += 1.0 / (fusionOffset + float64(rank))
	}
	for id, rank := range denseRanks {
		scores[id] += 1.0 / (fusionOffset + float64(rank))
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > k {
		ids = ids[:k]
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notice, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.notices[id])
	}

	return out, nil
}

// keywordRanks runs the sparse pass, returning id to zero-based rank.
func (s *Store) keywordRanks(query string, k int) (map[string]int, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), k*2, 0, false)

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	ranks := make(map[string]int, len(res.Hits))
	for i, hit := range res.Hits {
		ranks[hit.ID] = i
	}

	return ranks, nil
}

// denseRanks runs the dense pass over every stored vector.
func (s *Store) denseRanks(ctx context.Context, query string, k int) (map[string]int, error) {
	if s.embedder == nil {
		return nil, nil
	}

	embedded, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embedded) == 0 {
		return nil, nil
	}
	queryVec := embedded[0]

	type scored struct {
		id    string
		score float32
	}

	s.mu.RLock()
	candidates := make([]scored, 0, len(s.vectors))
	for id, vec := range s.vectors {
		if len(vec) != len(queryVec) {
			continue
		}
		candidates = append(candidates, scored{id: id, score: vek32.CosineSimilarity(queryVec, vec)})
	}
	s.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	if len(candidates) > k*2 {
		candidates = candidates[:k*2]
	}

	ranks := make(map[string]int, len(candidates))
	for i, c := range candidates {
		ranks[c.id] = i
	}

	return ranks, nil
}

// LoadDir reads every .json file under dir as an array of notices.
func LoadDir(dir string) ([]Notice, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Notice

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		var notices []Notice
		if err := json.Unmarshal(raw, &notices); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		out = append(out, notices...)
	}

	return out, nil
}
