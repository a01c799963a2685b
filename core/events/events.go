// Package events defines the discrete event records produced over a single
// logical stream per run. Ordering within one run is total; any transport
// layering on top must preserve it.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of run event.
type Type int

const (
	EventRunStarted Type = iota
	EventRunCompleted
	EventRunFailed
	EventUnitStarted
	EventUnitCompleted
	EventUnitFailed
	EventUnitSkipped
	EventTransfer
	EventLoopIteration
	EventLoopStopped
	EventToolCalled
	EventToolFailed
	EventAdvisory
)

var typeNames = map[Type]string{
	EventRunStarted:    "run_started",
	EventRunCompleted:  "run_completed",
	EventRunFailed:     "run_failed",
	EventUnitStarted:   "unit_started",
	EventUnitCompleted: "unit_completed",
	EventUnitFailed:    "unit_failed",
	EventUnitSkipped:   "unit_skipped",
	EventTransfer:      "transfer",
	EventLoopIteration: "loop_iteration",
	EventLoopStopped:   "loop_stopped",
	EventToolCalled:    "tool_called",
	EventToolFailed:    "tool_failed",
	EventAdvisory:      "advisory",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is one record on a run's event stream.
type Event struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	Type      Type           `json:"type"`
	Author    string         `json:"author"`
	Content   string         `json:"content,omitempty"`
	Target    string         `json:"target,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Emitter receives events as they occur, in order.
type Emitter func(*Event)

// Stream accumulates the ordered event records for one run. It is safe for
// concurrent appends from a parallel block; order within the block is
// whatever completion order the block produced, which the block reports as a
// single ordered step to its neighbors.
type Stream struct {
	mu     sync.Mutex
	runID  string
	events []*Event
	sinks  []Emitter
}

// NewStream creates a stream for one run.
func NewStream(runID string) *Stream {
	return &Stream{runID: runID}
}

// RunID returns the owning run's identifier.
func (s *Stream) RunID() string { return s.runID }

// Subscribe registers an emitter invoked synchronously for every appended
// event. Must be called before the run starts.
func (s *Stream) Subscribe(sink Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Emit appends an event, stamping identity and time.
func (s *Stream) Emit(t Type, author string, opts ...Option) *Event {
	ev := &Event{
		ID:        uuid.NewString(),
		RunID:     s.runID,
		Type:      t,
		Author:    author,
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(ev)
	}

	s.mu.Lock()
	s.events = append(s.events, ev)
	sinks := s.sinks
	s.mu.Unlock()

	for _, sink := range sinks {
		sink(ev)
	}
	return ev
}

// Events returns the ordered records emitted so far.
func (s *Stream) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// Option mutates an event before it is appended.
type Option func(*Event)

// WithContent sets the event's content payload.
func WithContent(content string) Option {
	return func(ev *Event) { ev.Content = content }
}

// WithTarget sets the hand-off target for transfer events.
func WithTarget(target string) Option {
	return func(ev *Event) { ev.Target = target }
}

// WithData attaches a structured payload.
func WithData(data map[string]any) Option {
	return func(ev *Event) { ev.Data = data }
}
