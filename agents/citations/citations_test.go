package citations_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/agents/citations"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// openAlexStub serves canned OpenAlex payloads and counts queries.
type openAlexStub struct {
	mu      sync.Mutex
	queries []string
}

func (s *openAlexStub) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.queries = append(s.queries, req.URL.Query().Get("search"))
	s.mu.Unlock()

	body := `{"results": [{
		"title": "Queueing Behaviour Under Overload",
		"doi": "https://doi.org/10.0000/queueing",
		"abstract_inverted_index": {"Queues": [0], "overflow": [1], "under": [2], "load.": [3]}
	}]}`

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

type topicsModel struct {
	topics string
}

func (m *topicsModel) Name() string { return "topics-mock" }

func (m *topicsModel) Generate(_ context.Context, req *providers.Request) (*providers.Response, error) {
	content := m.topics
	if strings.Contains(req.SystemPrompt, "adding citations") {
		content = "manuscript with citations added"
	}

	return &providers.Response{Content: content, StopReason: providers.StopReasonEndTurn}, nil
}

func newRuntime(manuscript string) *flow.Runtime {
	st := state.New(nil)
	st.Set(state.KeyFullManuscript, manuscript)

	return &flow.Runtime{State: st, Stream: events.NewStream("test-run")}
}

func TestGather_ExtractsParsesAndSearches(t *testing.T) {
	stub := &openAlexStub{}
	searcher := tools.NewLiteratureSearcher(&http.Client{Transport: stub}, 2)
	model := &topicsModel{topics: "- queueing theory\n- load shedding"}

	node := citations.Gather(model, "", searcher)

	rt := newRuntime("# Results\n\nqueues overflow under load")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	topics, ok := rt.State.Get(state.KeyTopics)
	require.True(t, ok)
	assert.Equal(t, []string{"queueing theory", "load shedding"}, topics)

	stub.mu.Lock()
	assert.Equal(t, []string{"queueing theory", "load shedding"}, stub.queries)
	stub.mu.Unlock()

	results := rt.State.GetString(state.KeySearchResults)
	assert.Contains(t, results, "Queueing Behaviour Under Overload")
	assert.Contains(t, results, "Queues overflow under load.")
	assert.Contains(t, results, "10.0000/queueing")
}

func TestNew_RewritesManuscriptWithCitations(t *testing.T) {
	stub := &openAlexStub{}
	searcher := tools.NewLiteratureSearcher(&http.Client{Transport: stub}, 1)
	model := &topicsModel{topics: "- queueing theory"}

	node := citations.New(model, "", searcher)

	rt := newRuntime("# Results\n\nqueues overflow under load")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, "manuscript with citations added", rt.State.GetString(state.KeyEnhancedDraft))
	assert.Equal(t, "manuscript with citations added", rt.State.GetString(state.KeyFullManuscript))
	assert.Equal(t, "manuscript with citations added", rt.Output)
}

func TestGather_SearchFailureDegrades(t *testing.T) {
	searcher := tools.NewLiteratureSearcher(&http.Client{Transport: failingTransport{}}, 1)
	model := &topicsModel{topics: "- queueing theory"}

	node := citations.Gather(model, "", searcher)

	rt := newRuntime("draft")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Contains(t, rt.State.GetString(state.KeySearchResults), "search unavailable")
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}
