package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hyper-light/quill/core/schema"
)

// State is the mutable mapping shared by every unit in a run. Composition
// order is the concurrency discipline: sequential units see prior writes,
// parallel units work from a snapshot and must write disjoint keys.
type State struct {
	mu      sync.RWMutex
	values  map[Key]any
	touched map[schema.Section]bool
}

// New returns an empty state, optionally pre-seeded.
func New(seed map[Key]any) *State {
	s := &State{
		values:  make(map[Key]any, len(seed)),
		touched: make(map[schema.Section]bool),
	}
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

// Get returns the raw value for a key.
func (s *State) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value for a key as a string; missing keys and
// non-string values read as "".
func (s *State) GetString(key Key) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Set writes a value under a key.
func (s *State) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Clear sets a key to the empty string. Cleared keys stay present so a
// template referencing them still resolves.
func (s *State) Clear(key Key) {
	s.Set(key, "")
}

// Delete removes a key entirely, as if it was never written.
func (s *State) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Snapshot returns a consistent shallow copy of the current values for
// read-only use (template filling, parallel blocks).
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(Snapshot, len(s.values))
	for k, v := range s.values {
		snap[k] = v
	}
	return snap
}

// Merge writes every entry of other into the state. Used to fold a parallel
// member's writes back into the shared state; key disjointness is the
// composer's obligation.
func (s *State) Merge(other Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range other {
		s.values[k] = v
	}
}

// MarkTouched records that a section's instructions were consumed this pass.
// The mark survives instruction clearing so the assembler can tell requested
// sections from never-requested ones.
func (s *State) MarkTouched(section schema.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[section] = true
}

// Touched reports whether a section was requested this pass.
func (s *State) Touched(section schema.Section) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched[section]
}

// TouchedSections returns the requested sections in document order.
func (s *State) TouchedSections() []schema.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []schema.Section
	for _, sec := range schema.Sections() {
		if s.touched[sec] {
			out = append(out, sec)
		}
	}
	return out
}

// Figures returns the accumulated figure store.
func (s *State) Figures() []schema.FigureDescription {
	v, ok := s.Get(KeyFigures)
	if !ok {
		return nil
	}
	figs, _ := v.([]schema.FigureDescription)
	return figs
}

// AppendFigure numbers and stores a figure description. The assigned number
// is always the current store size plus one, regardless of what the model
// put in the record.
func (s *State) AppendFigure(fd schema.FigureDescription) schema.FigureDescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	figs, _ := s.values[KeyFigures].([]schema.FigureDescription)
	fd.FigureNumber = len(figs) + 1
	s.values[KeyFigures] = append(figs, fd)
	return fd
}

// RenderFigureDescriptions produces the prompt-ready listing of every stored
// figure.
func (s *State) RenderFigureDescriptions() string {
	var b strings.Builder
	for _, fd := range s.Figures() {
		fmt.Fprintf(&b, "Figure %d: %s\n%s\n\n", fd.FigureNumber, fd.Title, fd.Description)
	}
	return strings.TrimSpace(b.String())
}

// Snapshot is a point-in-time read-only copy of state values.
type Snapshot map[Key]any

// Lookup resolves a key, optionally descending one level into a nested
// mapping or manuscript value via subkey. It returns the value rendered as a
// string and whether the key resolved.
func (sn Snapshot) Lookup(key, subkey string) (string, bool) {
	v, ok := sn[Key(key)]
	if !ok {
		return "", false
	}
	if subkey == "" {
		return renderValue(v), true
	}
	switch nested := v.(type) {
	case map[string]any:
		inner, ok := nested[subkey]
		if !ok {
			return "", false
		}
		return renderValue(inner), true
	case *schema.Manuscript:
		sec := schema.Section(subkey)
		if !sec.Valid() {
			return "", false
		}
		return nested.Get(sec), true
	case schema.Manuscript:
		sec := schema.Section(subkey)
		if !sec.Valid() {
			return "", false
		}
		return nested.Get(sec), true
	}
	return "", false
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
