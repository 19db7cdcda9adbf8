package generate

import (
	"errors"
	"strings"

	"portfolium/internal/providers/portfolio"
)

const genericFailureMessage = "Failed to generate portfolio. Please try again."

// ClassifyFailure converts an internal generation error into a stable
// user-facing message. Raw provider payloads and stack traces never
// reach the client.
func ClassifyFailure(err error) string {
	if err == nil {
		return genericFailureMessage
	}
	if errors.Is(err, portfolio.ErrAllProvidersExhausted) {
		return "All AI providers are currently unavailable. Please try again later."
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "credential"):
		return "Invalid API key. Please check the AI provider configuration."
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return "API quota exceeded. Please try again later."
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline"):
		return "Request timed out. The portfolio generation took too long. Please try with less information."
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "network is unreachable"):
		return "Unable to connect to the AI providers. Please try again later."
	case strings.Contains(msg, "model"):
		return "The selected model is not available. Please choose a different model."
	default:
		return genericFailureMessage
	}
}
