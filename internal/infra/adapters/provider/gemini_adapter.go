package provider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/ports/adapter"
)

var _ adapter.ProviderAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter implements adapter.ProviderAdapter using the official SDK.
// The client is created lazily on first use so an absent credential shows
// up as ProviderUnavailable at call time, never as a startup failure.
type GeminiAdapter struct {
	apiKey  string
	baseURL string
	model   string
	maxOut  int
	timeout time.Duration

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiAdapter(apiKey, model, baseURL string, maxOut int, timeout time.Duration) *GeminiAdapter {
	if model == "" {
		model = "gemini-1.5-pro"
	}
	if maxOut <= 0 {
		maxOut = 1000
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GeminiAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		maxOut:  maxOut,
		timeout: timeout,
	}
}

func (g *GeminiAdapter) Name() string { return "google" }

func (g *GeminiAdapter) Available() bool { return g.apiKey != "" }

func (g *GeminiAdapter) Info() adapter.ProviderInfo {
	return adapter.ProviderInfo{
		Name:               "google",
		Model:              g.model,
		LatencyEstimate:    300 * time.Millisecond,
		CostPerQueryMicros: 2000,
	}
}

func (g *GeminiAdapter) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: g.baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	g.client = c
	return c, nil
}

func (g *GeminiAdapter) Invoke(ctx context.Context, messages []adapter.Message) (string, error) {
	if !g.Available() {
		return "", domain.ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := g.ensureClient(ctx)
	if err != nil {
		return "", &domain.ProviderError{Provider: "google", Err: err}
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	}
	contents, system := toGenAIContents(messages)
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if len(contents) == 0 {
		return "", &domain.ProviderError{Provider: "google", Err: errors.New("no messages")}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", &domain.ProviderError{Provider: "google", Err: err}
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p != nil && p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", &domain.ProviderError{Provider: "google", Err: errors.New("no candidate content")}
}

// toGenAIContents converts chat history, lifting system messages out into
// a single system instruction (Gemini has no system role in history).
func toGenAIContents(msgs []adapter.Message) ([]*genai.Content, string) {
	out := make([]*genai.Content, 0, len(msgs))
	var system string
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		case "system":
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out, system
}
