// Package tools implements the tool contract: named, described, callable
// units with fixed argument schemas, invocable by prompt-driven units. The
// registry's "tool not found" error is distinguishable from other failures;
// that distinction drives the resilient invoker's retry-vs-abort decision.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
)

// Handler executes a tool call. The returned string becomes the tool result
// fed back to the model.
type Handler func(ctx context.Context, args map[string]any, st *state.State) (string, error)

// Tool is a named, described callable unit with a fixed argument schema.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Declaration renders the tool for a provider request.
func (t *Tool) Declaration() providers.Tool {
	params := t.Parameters
	if params == nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return providers.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}

// Registry holds the tools available to one unit.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates a registry from the given tools.
func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name] = t
	}
	return r
}

// Register adds or replaces a tool.
func (r *Registry) Register(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Declarations renders every registered tool for a provider request.
func (r *Registry) Declarations() []providers.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.tools) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	decls := make([]providers.Tool, 0, len(names))
	for _, name := range names {
		decls = append(decls, r.tools[name].Declaration())
	}
	return decls
}

// Invoke dispatches a model-requested tool call. An unknown tool name or
// undecodable argument payload surfaces as a tool-routing error; handler
// failures pass through unclassified.
func (r *Registry) Invoke(ctx context.Context, call providers.ToolCall, st *state.State) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return "", qerrors.New(
			qerrors.CategoryToolRouting,
			"invoke",
			fmt.Sprintf("tool %q not found in the tool registry (available: %s)", call.Name, strings.Join(r.Names(), ", ")),
		)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Arguments); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "", qerrors.Wrap(
				qerrors.CategoryToolRouting,
				"invoke",
				fmt.Errorf("invalid tool arguments for %q: %w", call.Name, err),
			)
		}
	}

	return tool.Handler(ctx, args, st)
}

// Graceful wraps a handler so downstream failures surface as an advisory
// string instead of failing the run. Enrichment tools (network fetch,
// repository clone, literature search) are best effort, not core guarantees.
func Graceful(name string, h Handler) Handler {
	return func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
		out, err := h(ctx, args, st)
		if err != nil {
			return fmt.Sprintf(
				"WARNING: %s failed (%v); continue without its output. %s",
				name, err, qerrors.CategoryExternal.Suggestion(),
			), nil
		}
		return out, nil
	}
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

// stringSchema builds the argument schema for tools taking string fields.
func stringSchema(required []string, fields map[string]string) map[string]any {
	props := make(map[string]any, len(fields))
	for name, desc := range fields {
		props[name] = map[string]any{"type": "string", "description": desc}
	}
	reqAny := make([]any, len(required))
	for i, r := range required {
		reqAny[i] = r
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   reqAny,
	}
}
