package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ProviderAdapter = (*AnthropicAdapter)(nil)

// AnthropicAdapter implements adapter.ProviderAdapter against the
// Anthropic messages API. Base URL defaults to https://api.anthropic.com.
// Chat path: POST /v1/messages, headers x-api-key + anthropic-version.
// The response content envelope varies (list of typed blocks, flat object,
// bare string); decodeContent probes the known shapes and falls back to a
// stringified representation instead of erroring.
type AnthropicAdapter struct {
	apiKey    string
	base      string
	model     string
	maxTokens int
	timeout   time.Duration
	client    *http.Client
}

const anthropicVersion = "2023-06-01"

func NewAnthropicAdapter(apiKey, model, base string, maxTokens int, timeout time.Duration) *AnthropicAdapter {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	if base == "" {
		base = "https://api.anthropic.com"
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &AnthropicAdapter{
		apiKey:    apiKey,
		base:      strings.TrimRight(base, "/"),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
	}
}

func (a *AnthropicAdapter) Name() string { return "anthropic" }

func (a *AnthropicAdapter) Available() bool { return a.apiKey != "" }

func (a *AnthropicAdapter) Info() adapter.ProviderInfo {
	return adapter.ProviderInfo{
		Name:               "anthropic",
		Model:              a.model,
		LatencyEstimate:    1200 * time.Millisecond,
		CostPerQueryMicros: 8000,
	}
}

func (a *AnthropicAdapter) Invoke(ctx context.Context, messages []adapter.Message) (string, error) {
	if !a.Available() {
		return "", domain.ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The messages API takes the system prompt as a top-level field.
	var system string
	chat := make([]adapter.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		chat = append(chat, m)
	}

	reqBody := struct {
		Model     string            `json:"model"`
		MaxTokens int               `json:"max_tokens"`
		System    string            `json:"system,omitempty"`
		Messages  []adapter.Message `json:"messages"`
	}{Model: a.model, MaxTokens: a.maxTokens, System: system, Messages: chat}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/v1/messages", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &domain.ProviderError{Provider: "anthropic", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", &domain.ProviderError{Provider: "anthropic", Err: fmt.Errorf("anthropic http %d", resp.StatusCode)}
	}

	var payload struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &domain.ProviderError{Provider: "anthropic", Err: err}
	}
	return decodeContent(payload.Content), nil
}

// decodeContent normalizes the provider's content envelope. Tried shapes,
// in order: list of typed blocks, flat object with a text field, bare
// string. Unrecognized shapes degrade to the raw JSON as a string.
func decodeContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		for _, b := range blocks {
			if b.Text != "" {
				return b.Text
			}
		}
		return ""
	}

	var flat struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && flat.Text != "" {
		return flat.Text
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return strings.TrimSpace(string(raw))
}
