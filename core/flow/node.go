package flow

import (
	"context"

	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/schema"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// ==============================================================================
// Node Variant
// ==============================================================================

// Node is the composition tree. Exactly one of the kind-specific fields is
// populated, selected by Kind; Run dispatches on it exhaustively.
type Node struct {
	Kind        Kind
	Name        string
	Description string

	// Guard, when set, is evaluated at dispatch. A false result skips the
	// node without error; the parent composer proceeds as if it completed.
	Guard func(st *state.State) bool

	Leaf     *Leaf
	Children []*Node
	Loop     *Loop
	Router   *Router
}

// Runtime carries the per-run mutable context threaded through a tree.
type Runtime struct {
	State  *state.State
	Stream *events.Stream
	Input  Input

	// Output is the content of the most recently completed unit. The
	// coordinator surfaces it as the turn's final reply.
	Output string
}

// ==============================================================================
// Leaf
// ==============================================================================

// Leaf is a single prompt-driven unit: one instruction template, one model
// call (plus tool rounds), one output key. Func leaves are pure: no model,
// deterministic state transforms only.
type Leaf struct {
	// Model generates the unit's reply. Nil requires Func.
	Model providers.Provider

	// ModelName overrides the provider's configured model when set.
	ModelName string

	// Instruction is the template resolved against the state snapshot
	// taken when the leaf starts. Unresolvable placeholders fail the
	// unit with a configuration error before any model call.
	Instruction string

	// IncludeInput appends the user turn (text and any image) as the
	// user message. When false the leaf runs on its instruction alone.
	IncludeInput bool

	// Tools, when set, are offered to the model and invoked by name.
	Tools *tools.Registry

	// ToolRetries bounds full-unit attempts when the model produces a
	// recognized tool routing failure. Zero means a single attempt.
	ToolRetries int

	// MaxToolRounds bounds tool call rounds within one attempt.
	// Zero means the default.
	MaxToolRounds int

	// OutputKey receives the unit's final content. Written only on
	// success; a failed unit leaves the key untouched.
	OutputKey state.Key

	// Contract, when set, validates the reply as structured output.
	// The decoded value is stored under OutputKey in place of raw text.
	Contract *schema.Contract

	// Before runs ahead of the model call. An error fails the unit.
	Before func(rt *Runtime) error

	// After runs on the successful output and may rewrite it. It runs
	// after the output key write, so state mutations it makes win; if it
	// errors, the output key write is rolled back.
	After func(rt *Runtime, output string) (string, error)

	// Func makes the leaf a pure unit executed in place of a model call.
	Func func(ctx context.Context, rt *Runtime) (string, error)
}

// ==============================================================================
// Loop
// ==============================================================================

// StopCondition stops a loop when the trimmed value under Key equals
// Sentinel exactly. Checked after each full body pass, never mid-body.
type StopCondition struct {
	Key      state.Key
	Sentinel string
}

// Loop repeats Body up to MaxIterations times.
type Loop struct {
	Body          []*Node
	MaxIterations int
	Stop          *StopCondition
}

// ==============================================================================
// Router
// ==============================================================================

// Route pairs a predicate with a target subtree. Match order is
// registration order; the first match wins.
type Route struct {
	Name   string
	When   func(in Input) bool
	Target *Node
}

// Router dispatches one turn to exactly one route.
type Router struct {
	Routes []Route
}

// ==============================================================================
// Constructors
// ==============================================================================

// NewLeaf wraps a leaf unit as a node.
func NewLeaf(name string, leaf *Leaf) *Node {
	return &Node{Kind: KindLeaf, Name: name, Leaf: leaf}
}

// NewSequence composes children in total order.
func NewSequence(name string, children ...*Node) *Node {
	return &Node{Kind: KindSequence, Name: name, Children: children}
}

// NewParallel composes children to run concurrently. Members must write
// disjoint output keys; each observes the pre-block state as a snapshot.
func NewParallel(name string, children ...*Node) *Node {
	return &Node{Kind: KindParallel, Name: name, Children: children}
}

// NewLoop wraps a loop composer as a node.
func NewLoop(name string, loop *Loop) *Node {
	return &Node{Kind: KindLoop, Name: name, Loop: loop}
}

// NewRouter wraps a dispatch table as a node.
func NewRouter(name string, routes ...Route) *Node {
	return &Node{Kind: KindRouter, Name: name, Router: &Router{Routes: routes}}
}
