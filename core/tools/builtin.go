package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hyper-light/quill/core/state"
)

// ParseList converts newline- or bullet-separated text into a list of
// cleaned string items, with bullets and numbering removed.
func ParseList(text string) []string {
	var items []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		for _, prefix := range []string{"-", "*"} {
			if strings.HasPrefix(ln, prefix) {
				ln = strings.TrimSpace(strings.TrimLeft(ln, prefix))
			}
		}
		ln = strings.TrimSpace(strings.TrimLeft(ln, "0123456789."))
		if ln != "" {
			items = append(items, ln)
		}
	}
	return items
}

// NewParseListTool exposes ParseList to models that extract topic lists.
func NewParseListTool() *Tool {
	return &Tool{
		Name:        "parse_list",
		Description: "Convert newline- or bullet-separated text into a JSON list of strings, with bullets and numbering removed.",
		Parameters: stringSchema(
			[]string{"text"},
			map[string]string{"text": "Text containing newline- or bullet-separated lines."},
		),
		Handler: func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			text, err := stringArg(args, "text")
			if err != nil {
				return "", err
			}
			items := ParseList(text)
			st.Set(state.KeyTopics, items)
			encoded, _ := json.Marshal(items)
			return string(encoded), nil
		},
	}
}

// NewExitLoopTool signals that an iterative process should end by writing
// the completion phrase under the given key; the loop's stop condition reads
// it back with exact-match comparison.
func NewExitLoopTool(key state.Key, sentinel string) *Tool {
	return &Tool{
		Name:        "exit_loop",
		Description: "Call this ONLY when the critique indicates no further changes are needed, signaling the iterative process should end.",
		Parameters:  stringSchema(nil, map[string]string{}),
		Handler: func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			st.Set(key, sentinel)
			return "{}", nil
		},
	}
}
