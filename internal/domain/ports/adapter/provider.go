package adapter

import (
	"context"
	"time"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ProviderInfo carries fixed per-provider estimates. They are used only
// for diagnostics (logs and metrics), never for routing decisions.
type ProviderInfo struct {
	Name               string
	Model              string
	LatencyEstimate    time.Duration
	CostPerQueryMicros int64
}

// ProviderAdapter is the port for one external text-generation service.
//
// Invoke must return domain.ErrProviderUnavailable before any network
// I/O when no credentials are configured, and *domain.ProviderError for
// runtime failures (unreachable network, invalid credentials, non-2xx).
// Unrecognized response shapes are normalized, not raised. An adapter
// never partially mutates shared state.
type ProviderAdapter interface {
	Name() string
	Available() bool
	Info() ProviderInfo
	Invoke(ctx context.Context, messages []Message) (string, error)
}
