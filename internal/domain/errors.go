package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider is returned when the caller selects a provider
	// outside the closed enumeration. Raised before any network call.
	ErrUnsupportedProvider = errors.New("unsupported payment provider")

	// ErrMissingToken is returned when an operation on the card gateway is
	// attempted without the provider token. Raised before any network call.
	ErrMissingToken = errors.New("transaction token is required")

	// ErrNotConfigured is returned when a required provider credential is
	// absent from the configuration. The credential value itself is never
	// part of the message.
	ErrNotConfigured = errors.New("payment provider is not configured")
)

// ProviderError wraps a non-2xx reply from an external provider. The numeric
// status code is part of the message so callers and logs can see what the
// provider answered without unwrapping.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewProviderError builds a ProviderError from a raw provider reply.
func NewProviderError(provider Provider, statusCode int, body string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Body: body}
}
