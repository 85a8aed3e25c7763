// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fakeProvider is a scriptable in-memory provider adapter used by unit
// tests. It records every Invoke call.
type fakeProvider struct {
	mu        sync.Mutex
	name      string
	model     string
	available bool
	response  string
	err       error
	calls     int
	lastMsgs  []adapter.Message
}

func newFakeProvider(name, response string) *fakeProvider {
	return &fakeProvider{name: name, model: name + "-model", available: true, response: response}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Info() adapter.ProviderInfo {
	return adapter.ProviderInfo{
		Name:               f.name,
		Model:              f.model,
		LatencyEstimate:    10 * time.Millisecond,
		CostPerQueryMicros: 100,
	}
}

func (f *fakeProvider) Invoke(ctx context.Context, messages []adapter.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.calls++
	f.lastMsgs = append([]adapter.Message(nil), messages...)
	if !f.available {
		return "", domain.ErrProviderUnavailable
	}
	if f.err != nil {
		return "", &domain.ProviderError{Provider: f.name, Err: f.err}
	}
	return f.response, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) lastMessages() []adapter.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]adapter.Message(nil), f.lastMsgs...)
}
