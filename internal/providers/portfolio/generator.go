// Package portfolio wraps the generative-AI backends that turn raw
// biographical text into a single-page HTML portfolio.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Generator is the uniform contract implemented by every provider
// adapter. Generate holds no state between calls; its only side effect
// is the outbound request.
type Generator interface {
	Name() string
	Generate(ctx context.Context, userInfo, modelHint string) (string, error)
}

// Failure kinds every adapter maps its provider-specific errors into.
var (
	ErrProviderUnavailable   = errors.New("provider credentials not configured")
	ErrProviderRejected      = errors.New("provider rejected the request")
	ErrProviderTimeout       = errors.New("provider timed out")
	ErrProviderMalformed     = errors.New("provider returned a malformed response")
	ErrAllProvidersExhausted = errors.New("all providers exhausted")
)

func classifyTransportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", provider, ErrProviderTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", provider, ErrProviderTimeout)
	}
	return fmt.Errorf("%s: request failed: %w", provider, err)
}

func classifyStatusError(provider string, status int, detail string) error {
	if detail == "" {
		return fmt.Errorf("%s: status %d: %w", provider, status, ErrProviderRejected)
	}
	return fmt.Errorf("%s: status %d: %s: %w", provider, status, detail, ErrProviderRejected)
}
