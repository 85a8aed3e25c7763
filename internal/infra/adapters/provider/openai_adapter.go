package provider

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ProviderAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.ProviderAdapter over the official SDK.
// The default model (gpt-4o) is vision-capable, so the same adapter
// serves both general and visual task categories.
type OpenAIAdapter struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  openai.Client
}

func NewOpenAIAdapter(apiKey, model string, timeout time.Duration) *OpenAIAdapter {
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &OpenAIAdapter{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Available() bool { return o.apiKey != "" }

func (o *OpenAIAdapter) Info() adapter.ProviderInfo {
	return adapter.ProviderInfo{
		Name:               "openai",
		Model:              o.model,
		LatencyEstimate:    800 * time.Millisecond,
		CostPerQueryMicros: 6000, // ~$0.006 per query
	}
}

func (o *OpenAIAdapter) Invoke(ctx context.Context, messages []adapter.Message) (string, error) {
	if !o.Available() {
		return "", domain.ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: toOpenAIMessages(messages),
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &domain.ProviderError{Provider: "openai", Err: err}
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", &domain.ProviderError{Provider: "openai", Err: errors.New("no choice content")}
}

func toOpenAIMessages(messages []adapter.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
