package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hyper-light/quill/core/state"
)

const openAlexBase = "https://api.openalex.org/works"

// Work is one literature search hit: title, abstract, and DOI of an
// open-access, non-retracted paper.
type Work struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	DOI      string `json:"doi"`
}

// LiteratureSearcher queries the OpenAlex works API, filtering out retracted
// papers and ranking by citation count. Queries are LRU-cached so a search
// loop does not hammer the API with repeats.
type LiteratureSearcher struct {
	client *http.Client
	limit  int
	cache  *lru.Cache[string, []Work]
}

// NewLiteratureSearcher creates a searcher returning at most limit works per
// topic.
func NewLiteratureSearcher(client *http.Client, limit int) *LiteratureSearcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if limit <= 0 {
		limit = 3
	}
	cache, _ := lru.New[string, []Work](128)
	return &LiteratureSearcher{
		client: client,
		limit:  limit,
		cache:  cache,
	}
}

// Search returns the top works for a topic.
func (s *LiteratureSearcher) Search(ctx context.Context, topic string) ([]Work, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("empty search topic")
	}
	if works, ok := s.cache.Get(topic); ok {
		return works, nil
	}

	q := url.Values{}
	q.Set("search", topic)
	q.Set("filter", "is_retracted:false")
	q.Set("sort", "cited_by_count:desc")
	q.Set("per-page", fmt.Sprintf("%d", s.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("openalex query: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openalex query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openalex query: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("openalex query: %w", err)
	}

	var payload struct {
		Results []struct {
			Title                 string           `json:"title"`
			DOI                   string           `json:"doi"`
			AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("openalex query: %w", err)
	}

	works := make([]Work, 0, len(payload.Results))
	for _, r := range payload.Results {
		works = append(works, Work{
			Title:    r.Title,
			Abstract: reconstructAbstract(r.AbstractInvertedIndex),
			DOI:      r.DOI,
		})
	}

	s.cache.Add(topic, works)
	return works, nil
}

// reconstructAbstract rebuilds abstract text from OpenAlex's inverted index
// representation.
func reconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}
	maxPos := 0
	for _, positions := range index {
		for _, p := range positions {
			if p > maxPos {
				maxPos = p
			}
		}
	}
	words := make([]string, maxPos+1)
	for word, positions := range index {
		for _, p := range positions {
			if p >= 0 && p <= maxPos {
				words[p] = word
			}
		}
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// NewLiteratureSearchTool exposes the searcher as a tool: for each topic,
// return title, abstract, and DOI of top-cited non-retracted works.
func NewLiteratureSearchTool(s *LiteratureSearcher) *Tool {
	return &Tool{
		Name:        "search_literature",
		Description: "Search the scholarly literature for a topic; returns top-cited non-retracted works as JSON with title, abstract, and doi.",
		Parameters: stringSchema(
			[]string{"topics"},
			map[string]string{"topics": "Topics to search for, as a string."},
		),
		Handler: Graceful("search_literature", func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			topics, err := stringArg(args, "topics")
			if err != nil {
				return "", err
			}
			works, err := s.Search(ctx, topics)
			if err != nil {
				return "", err
			}
			encoded, _ := json.Marshal(works)
			return string(encoded), nil
		}),
	}
}
