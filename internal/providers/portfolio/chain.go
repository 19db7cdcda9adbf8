package portfolio

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Chain runs generators in a fixed priority order until one succeeds.
// Order never adapts to latency or history; a single failure is an
// immediate fallthrough to the next adapter, with no retry.
type Chain struct {
	generators []Generator
	logger     zerolog.Logger
}

func NewChain(logger zerolog.Logger, generators ...Generator) *Chain {
	return &Chain{generators: generators, logger: logger}
}

// Run returns the first non-empty normalized artifact and the name of
// the generator that produced it. A result that is empty after fence
// stripping counts as that adapter's failure, not an empty success.
func (c *Chain) Run(ctx context.Context, userInfo, modelHint string) (string, string, error) {
	for _, g := range c.generators {
		html, err := g.Generate(ctx, userInfo, modelHint)
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", g.Name()).Msg("generation attempt failed")
			continue
		}
		html = StripCodeFences(html)
		if html == "" {
			c.logger.Warn().Str("provider", g.Name()).Msg("generation result empty after normalization")
			continue
		}
		c.logger.Info().Str("provider", g.Name()).Int("length", len(html)).Msg("portfolio generated")
		return html, g.Name(), nil
	}
	return "", "", ErrAllProvidersExhausted
}

// StripCodeFences removes a markdown code-fence wrapper from the start
// and end of generated output and trims surrounding whitespace. It is
// idempotent: already-clean text passes through unchanged.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range []string{"```html", "```HTML", "```"} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
			break
		}
	}
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}
	return trimmed
}
