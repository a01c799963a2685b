package reviewer_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/agents/reviewer"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
)

// reviewModel scripts the critic and refiner turns by inspecting the prompt.
type reviewModel struct {
	mu          sync.Mutex
	critiques   []string
	refinements int
}

func (m *reviewModel) Name() string { return "review-mock" }

func (m *reviewModel) Generate(_ context.Context, req *providers.Request) (*providers.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.Contains(req.SystemPrompt, "peer reviewer") {
		critique := reviewer.CompletionPhrase
		if len(m.critiques) > 0 {
			critique = m.critiques[0]
			m.critiques = m.critiques[1:]
		}
		return &providers.Response{Content: critique, StopReason: providers.StopReasonEndTurn}, nil
	}

	m.refinements++
	return &providers.Response{
		Content:    "revised manuscript v" + strings.Repeat("+", m.refinements),
		StopReason: providers.StopReasonEndTurn,
	}, nil
}

func newRuntime(manuscript string) *flow.Runtime {
	st := state.New(nil)
	st.Set(state.KeyFullManuscript, manuscript)

	return &flow.Runtime{State: st, Stream: events.NewStream("test-run")}
}

func loopStopState(t *testing.T, stream *events.Stream) string {
	t.Helper()

	for _, ev := range stream.Events() {
		if ev.Type == events.EventLoopStopped {
			return ev.Content
		}
	}

	t.Fatal("no loop_stopped event")
	return ""
}

func TestReviewer_StopsOnSignOffWithoutRefining(t *testing.T) {
	model := &reviewModel{}

	node := reviewer.New(model, "", reviewer.Options{MaxIterations: 5})

	rt := newRuntime("a flawless draft")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, 0, model.refinements, "sign-off on the first pass skips the refiner")
	assert.Equal(t, flow.LoopStoppedByCondition.String(), loopStopState(t, rt.Stream))
	assert.Equal(t, "a flawless draft", rt.State.GetString(state.KeyFullManuscript))
}

func TestReviewer_RefinesUntilSignOff(t *testing.T) {
	model := &reviewModel{critiques: []string{"tighten the abstract", "fix the methods"}}

	node := reviewer.New(model, "", reviewer.Options{MaxIterations: 10})

	rt := newRuntime("rough draft")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, 2, model.refinements)
	assert.Equal(t, flow.LoopStoppedByCondition.String(), loopStopState(t, rt.Stream))

	// The refined text replaced the working manuscript.
	assert.Contains(t, rt.State.GetString(state.KeyFullManuscript), "revised manuscript")
	assert.Contains(t, rt.State.GetString(state.KeyRefined), "revised manuscript")
}

func TestReviewer_IterationCapKeepsLastRefinement(t *testing.T) {
	model := &reviewModel{critiques: []string{"a", "b", "c", "d", "e"}}

	node := reviewer.New(model, "", reviewer.Options{MaxIterations: 2})

	rt := newRuntime("rough draft")
	require.NoError(t, flow.Run(context.Background(), node, rt))

	assert.Equal(t, 2, model.refinements)
	assert.Equal(t, flow.LoopStoppedByLimit.String(), loopStopState(t, rt.Stream))
	assert.Contains(t, rt.State.GetString(state.KeyFullManuscript), "revised manuscript")
}
