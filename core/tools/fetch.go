package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyper-light/quill/core/state"
)

const fetchBodyLimit = 512 * 1024

// NewFetchURLTool retrieves the text content of a web resource. Failures
// surface as advisories, not run failures.
func NewFetchURLTool(client *http.Client) *Tool {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Tool{
		Name:        "fetch_url",
		Description: "Fetch the text content of a web resource.",
		Parameters: stringSchema(
			[]string{"url"},
			map[string]string{"url": "URL to retrieve."},
		),
		Handler: Graceful("fetch_url", func(ctx context.Context, args map[string]any, st *state.State) (string, error) {
			url, err := stringArg(args, "url")
			if err != nil {
				return "", err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", url, err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", url, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, fetchBodyLimit))
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", url, err)
			}
			return string(body), nil
		}),
	}
}
