package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/core/providers"
)

// chatRequest is the slice of the wire request this test cares about: tool
// declarations and tool-call messages.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role       string `json:"role"`
		ToolCallID string `json:"tool_call_id"`
		ToolCalls  []struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Function struct {
				Name      string `json:"name"`
				Arguments string `json:"arguments"`
			} `json:"function"`
		} `json:"tool_calls"`
	} `json:"messages"`
	Tools []struct {
		Type     string `json:"type"`
		Function struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"function"`
	} `json:"tools"`
}

const toolCallCompletion = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"model": "gpt-5.2-codex",
	"choices": [{
		"index": 0,
		"message": {
			"role": "assistant",
			"content": "",
			"tool_calls": [{
				"id": "call-9",
				"type": "function",
				"function": {"name": "search_literature", "arguments": "{\"query\": \"load shedding\"}"}
			}]
		},
		"finish_reason": "tool_calls"
	}],
	"usage": {"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8}
}`

func TestOpenAIProvider_ToolDeclarationsAndCallsRoundTrip(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolCallCompletion))
	}))
	defer server.Close()

	cfg := providers.DefaultConfig(providers.ProviderNameOpenAI)
	cfg.APIKey = "test"
	cfg.BaseURL = server.URL

	provider, err := providers.NewOpenAIProvider(cfg)
	require.NoError(t, err)

	resp, err := provider.Generate(context.Background(), &providers.Request{
		SystemPrompt: "be terse",
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: "find prior work"},
			{Role: providers.RoleAssistant, ToolCalls: []providers.ToolCall{
				{ID: "call-1", Name: "search_literature", Arguments: `{"query": "overload"}`},
			}},
			{Role: providers.RoleTool, Content: "three matches", ToolCallID: "call-1"},
		},
		Tools: []providers.Tool{{
			Name:        "search_literature",
			Description: "Search the literature for a topic.",
			Parameters:  map[string]any{"type": "object"},
		}},
	})
	require.NoError(t, err)

	// Declarations went out as function tools.
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "function", captured.Tools[0].Type)
	assert.Equal(t, "search_literature", captured.Tools[0].Function.Name)

	// The assistant turn carried its tool call, and the tool turn its id.
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	require.Len(t, captured.Messages[2].ToolCalls, 1)
	assert.Equal(t, "call-1", captured.Messages[2].ToolCalls[0].ID)
	assert.Equal(t, "search_literature", captured.Messages[2].ToolCalls[0].Function.Name)
	assert.Equal(t, "call-1", captured.Messages[3].ToolCallID)

	// The vendor's tool call came back as a generic one.
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call-9", resp.ToolCalls[0].ID)
	assert.Equal(t, "search_literature", resp.ToolCalls[0].Name)
	assert.Equal(t, providers.StopReasonToolUse, resp.StopReason)
	assert.Equal(t, 8, resp.Usage.TotalTokens)
}
