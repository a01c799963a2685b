// Package errors implements the error taxonomy for the orchestration core.
// Every fatal error carries a category so callers can render an actionable
// message instead of a raw stack trace, and each category maps to a short
// suggested remedy.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies an orchestration error.
type Category int

const (
	// CategoryGeneric is the fallback for unclassified failures.
	CategoryGeneric Category = iota

	// CategoryConfig covers setup mistakes: unresolved template
	// placeholders, malformed contracts, missing models. Never retried.
	CategoryConfig

	// CategoryValidation covers structured output that fails its declared
	// contract. Not retried at the unit layer; a critique/refine loop is the
	// sanctioned recovery.
	CategoryValidation

	// CategoryToolRouting covers recognizable tool-routing failures ("tool
	// not found", bad arguments). Retried up to a bound with a hint.
	CategoryToolRouting

	// CategoryRoutingMiss means no workflow predicate matched the user turn.
	CategoryRoutingMiss

	// CategoryModel covers model-side generation failures.
	CategoryModel

	// CategoryConnection covers network and transport failures.
	CategoryConnection

	// CategoryAuth covers credential and permission failures.
	CategoryAuth

	// CategoryRateLimit covers provider throttling.
	CategoryRateLimit

	// CategoryExternal covers best-effort enrichment failures (literature
	// search, repository fetch); converted to advisory strings at the tool
	// boundary rather than failing the run.
	CategoryExternal
)

var categoryNames = map[Category]string{
	CategoryGeneric:     "generic",
	CategoryConfig:      "configuration",
	CategoryValidation:  "validation",
	CategoryToolRouting: "tool_routing",
	CategoryRoutingMiss: "routing_miss",
	CategoryModel:       "model",
	CategoryConnection:  "connection",
	CategoryAuth:        "auth",
	CategoryRateLimit:   "rate_limit",
	CategoryExternal:    "external",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

var categorySuggestions = map[Category]string{
	CategoryGeneric:     "Retry the request; report the error if it persists.",
	CategoryConfig:      "Fix the workflow configuration; this will not succeed on retry.",
	CategoryValidation:  "The model produced malformed structured output; rerun, or relax the request.",
	CategoryToolRouting: "The model asked for an unavailable tool; the request was already retried with a hint.",
	CategoryRoutingMiss: "No workflow matched this input; rephrase or use one of the documented markers.",
	CategoryModel:       "The model failed to generate; try again or switch models.",
	CategoryConnection:  "Check network connectivity and the configured base URL.",
	CategoryAuth:        "Check the API key for the configured provider.",
	CategoryRateLimit:   "The provider is throttling; wait before retrying.",
	CategoryExternal:    "An external enrichment service failed; results may be partial.",
}

// Suggestion returns the remedial action for the category.
func (c Category) Suggestion() string {
	if s, ok := categorySuggestions[c]; ok {
		return s
	}
	return categorySuggestions[CategoryGeneric]
}

// Error wraps an underlying error with its category.
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a categorized error from a message.
func New(c Category, op, msg string) *Error {
	return &Error{Category: c, Op: op, Err: errors.New(msg)}
}

// Wrap attaches a category and operation to an existing error. A nil err
// returns nil.
func Wrap(c Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: c, Op: op, Err: err}
}

// CategoryOf extracts the category from an error chain, defaulting to
// CategoryGeneric.
func CategoryOf(err error) Category {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryGeneric
}

// Is reports whether the error chain carries the given category.
func Is(err error, c Category) bool {
	return err != nil && CategoryOf(err) == c
}
