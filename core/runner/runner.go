// Package runner owns the lifetime of a single drafting turn: it seeds the
// state, opens the event stream, walks the composition tree, and reports the
// final reply together with everything that happened along the way.
package runner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/state"
)

// Result is the outcome of one turn.
type Result struct {
	RunID  string
	Output string
	State  *state.State
	Events []*events.Event
}

// Runner executes a composition tree, one turn at a time.
type Runner struct {
	root   *flow.Node
	logger *slog.Logger
	sinks  []events.Emitter
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithEventSink subscribes a sink to every run's event stream.
func WithEventSink(sink events.Emitter) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sink) }
}

// New creates a runner over a composition tree.
func New(root *flow.Node, opts ...Option) *Runner {
	r := &Runner{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one turn. State persists only for the duration of the turn;
// callers that want continuity across turns pass the previous turn's state
// back in through seed.
func (r *Runner) Run(ctx context.Context, input flow.Input, seed map[state.Key]any) (*Result, error) {
	runID := uuid.NewString()
	stream := events.NewStream(runID)
	for _, sink := range r.sinks {
		stream.Subscribe(sink)
	}

	st := state.New(seed)
	st.Set(state.KeyLastUserInput, input.Text)

	rt := &flow.Runtime{
		State:  st,
		Stream: stream,
		Input:  input,
	}

	stream.Emit(events.EventRunStarted, r.root.Name, events.WithContent(input.Text))
	r.logger.Info("run started", "run_id", runID, "root", r.root.Name)

	result := &Result{RunID: runID, State: st}

	if err := flow.Run(ctx, r.root, rt); err != nil {
		category := qerrors.CategoryOf(err)

		stream.Emit(
			events.EventRunFailed,
			r.root.Name,
			events.WithContent(err.Error()),
			events.WithData(map[string]any{
				"category":   category.String(),
				"suggestion": category.Suggestion(),
			}),
		)
		r.logger.Error("run failed",
			"run_id", runID,
			"category", category.String(),
			"error", err,
		)

		result.Events = stream.Events()

		return result, err
	}

	result.Output = rt.Output
	stream.Emit(events.EventRunCompleted, r.root.Name, events.WithContent(rt.Output))
	r.logger.Info("run completed", "run_id", runID)

	result.Events = stream.Events()

	return result, nil
}
