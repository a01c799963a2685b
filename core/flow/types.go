// Package flow implements the agent composition core: a closed tagged
// variant of unit kinds (leaf, sequence, parallel, loop, router) executed by
// a single exhaustive dispatch. There is no open inheritance hierarchy; new
// behavior means a new kind and a new switch arm.
package flow

import "errors"

// Kind discriminates the node variant.
type Kind int

const (
	// KindLeaf is a single prompt-driven unit.
	KindLeaf Kind = iota
	// KindSequence runs children in total order, aborting on first failure.
	KindSequence
	// KindParallel runs children concurrently against a shared snapshot.
	KindParallel
	// KindLoop repeats a body until a stop condition or an iteration cap.
	KindLoop
	// KindRouter dispatches to the first child whose predicate matches.
	KindRouter
)

var kindNames = map[Kind]string{
	KindLeaf:     "leaf",
	KindSequence: "sequence",
	KindParallel: "parallel",
	KindLoop:     "loop",
	KindRouter:   "router",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// LoopState is the loop composer's terminal state.
type LoopState int

const (
	// LoopRunning means the loop has not yet terminated.
	LoopRunning LoopState = iota
	// LoopStoppedByCondition means the stop condition fired. Success.
	LoopStoppedByCondition
	// LoopStoppedByLimit means the iteration cap was reached. Best effort,
	// not an error; the last state is used as-is.
	LoopStoppedByLimit
)

var loopStateNames = map[LoopState]string{
	LoopRunning:            "running",
	LoopStoppedByCondition: "stopped_by_condition",
	LoopStoppedByLimit:     "stopped_by_limit",
}

func (s LoopState) String() string {
	if name, ok := loopStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Input is the user turn being processed: text, or an inline image
// attachment, or text carrying a routing marker.
type Input struct {
	Text      string
	ImageMIME string
	ImageData []byte
}

// HasImage reports whether the turn carries an image attachment.
func (in Input) HasImage() bool {
	return len(in.ImageData) > 0 && in.ImageMIME != ""
}

var (
	// ErrNoModel indicates a leaf has neither a model nor a pure function.
	ErrNoModel = errors.New("leaf has no model and no function")

	// ErrToolRoundsExhausted indicates a leaf kept requesting tools past
	// the per-attempt round bound.
	ErrToolRoundsExhausted = errors.New("tool call rounds exhausted")

	// ErrEmptyLoop indicates a loop node with no body.
	ErrEmptyLoop = errors.New("loop has no body")
)
