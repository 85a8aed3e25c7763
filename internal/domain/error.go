package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrSessionNotFound       = errors.New("training session not found")
	ErrProviderUnavailable   = errors.New("provider unavailable: no credentials configured")
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrRateLimited           = errors.New("rate limit exceeded")
)

// ProviderError wraps a runtime failure of one provider call (network,
// non-2xx response, unparseable envelope). The fallback router treats it
// as recoverable and advances to the next provider in the chain.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
