package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider implements Provider for OpenAI models and for any
// OpenAI-compatible endpoint reachable through BaseURL, which is how local
// model servers are wired in.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI adapter with the given
// configuration.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultConfig(ProviderNameOpenAI).Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig(ProviderNameOpenAI).MaxTokens
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("openai config: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		client: &client,
		config: cfg,
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return ProviderNameOpenAI
}

// Generate performs a non-streaming chat completion request.
func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	params := p.buildParams(req)

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai generate: empty choices")
	}

	return p.convertResponse(completion), nil
}

// buildParams constructs chat completion parameters from a Request.
func (p *OpenAIProvider) buildParams(req *Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, p.convertMessages(req.Messages)...)

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Tools:               p.convertTools(req.Tools),
	}

	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	} else if p.config.Temperature > 0 {
		params.Temperature = openai.Float(p.config.Temperature)
	}

	if len(req.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.StopSequences,
		}
	}

	return params
}

// convertMessages converts generic messages to chat completion format.
func (p *OpenAIProvider) convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			if len(msg.ImageData) > 0 {
				dataURL := fmt.Sprintf(
					"data:%s;base64,%s",
					msg.ImageMIME,
					base64.StdEncoding.EncodeToString(msg.ImageData),
				)
				parts := []openai.ChatCompletionContentPartUnionParam{
					openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: dataURL,
					}),
				}
				if msg.Content != "" {
					parts = append(parts, openai.TextContentPart(msg.Content))
				}
				result = append(result, openai.UserMessage(parts))
			} else {
				result = append(result, openai.UserMessage(msg.Content))
			}

		case RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				assistant := openai.ChatCompletionAssistantMessageParam{}
				if msg.Content != "" {
					assistant.Content.OfString = openai.String(msg.Content)
				}
				for _, tc := range msg.ToolCalls {
					assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					})
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &assistant,
				})
			} else {
				result = append(result, openai.AssistantMessage(msg.Content))
			}

		case RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		}
	}

	return result
}

// convertTools converts generic tools to chat completion format.
func (p *OpenAIProvider) convertTools(tools []Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, tool := range tools {
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  shared.FunctionParameters(tool.Parameters),
			},
		}
	}
	return result
}

// convertResponse converts a chat completion to generic format.
func (p *OpenAIProvider) convertResponse(completion *openai.ChatCompletion) *Response {
	choice := completion.Choices[0]

	var toolCalls []ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return &Response{
		Content:    choice.Message.Content,
		Model:      completion.Model,
		StopReason: convertOpenAIFinishReason(choice.FinishReason),
		ToolCalls:  toolCalls,
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}
}

func convertOpenAIFinishReason(reason string) StopReason {
	switch reason {
	case "tool_calls", "function_call":
		return StopReasonToolUse
	case "length":
		return StopReasonMaxTokens
	}
	return StopReasonEndTurn
}
