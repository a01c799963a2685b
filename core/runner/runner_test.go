package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/runner"
	"github.com/hyper-light/quill/core/state"
)

func echoNode() *flow.Node {
	return flow.NewLeaf("echo", &flow.Leaf{
		OutputKey: "echoed",
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			return "echo: " + rt.Input.Text, nil
		},
	})
}

func TestRunner_ProducesOutputStateAndOrderedEvents(t *testing.T) {
	run := runner.New(echoNode())

	result, err := run.Run(context.Background(), flow.Input{Text: "hello"}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "echo: hello", result.Output)
	assert.Equal(t, "hello", result.State.GetString(state.KeyLastUserInput))

	evs := result.Events
	require.NotEmpty(t, evs)
	assert.Equal(t, events.EventRunStarted, evs[0].Type)
	assert.Equal(t, events.EventRunCompleted, evs[len(evs)-1].Type)

	for _, ev := range evs {
		assert.Equal(t, result.RunID, ev.RunID)
	}
}

func TestRunner_SeedCarriesStateAcrossTurns(t *testing.T) {
	run := runner.New(echoNode())

	first, err := run.Run(context.Background(), flow.Input{Text: "one"}, nil)
	require.NoError(t, err)

	first.State.Set("draft", "kept across turns")

	second, err := run.Run(context.Background(), flow.Input{Text: "two"}, first.State.Snapshot())
	require.NoError(t, err)

	// Separate runs get separate identities but inherit the seeded state.
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, "kept across turns", second.State.GetString("draft"))
	assert.Equal(t, "two", second.State.GetString(state.KeyLastUserInput))
}

func TestRunner_FailureEmitsRunFailedWithSuggestion(t *testing.T) {
	failing := flow.NewLeaf("boom", &flow.Leaf{
		Func: func(context.Context, *flow.Runtime) (string, error) {
			return "", errors.New("boom")
		},
	})

	var seen []*events.Event
	run := runner.New(failing, runner.WithEventSink(func(ev *events.Event) {
		seen = append(seen, ev)
	}))

	result, err := run.Run(context.Background(), flow.Input{Text: "x"}, nil)
	require.Error(t, err)

	last := result.Events[len(result.Events)-1]
	assert.Equal(t, events.EventRunFailed, last.Type)
	assert.NotEmpty(t, last.Data["suggestion"])

	// The sink saw the same stream.
	assert.Len(t, seen, len(result.Events))
}
