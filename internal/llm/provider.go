package llm

import (
	"context"
	"errors"
	"strings"
)

// defines the interface for text-completion providers
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetProviderName() string
}

// represents an error from a completion provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

// IsOverloaded reports whether err signals transient provider overload,
// the only failure class worth retrying.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.Code == ErrCodeServiceDown || provErr.Code == ErrCodeRateLimit {
			return true
		}
	}

	// Providers are not consistent about surfacing typed errors, so also
	// sniff the message for the usual overload markers.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "service unavailable") ||
		strings.Contains(msg, "resource exhausted")
}
