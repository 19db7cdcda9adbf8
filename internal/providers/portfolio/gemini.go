package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	geminiProviderName   = "gemini"
	geminiDefaultModel   = "gemini-2.5-flash"
	geminiDefaultTimeout = 60 * time.Second
)

type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiGenerator is the primary adapter, backed by the official
// Google generative-AI SDK. A missing API key leaves client nil and
// every Generate call fails fast without a network round trip.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = geminiDefaultTimeout
	}
	g := &GeminiGenerator{model: model, timeout: timeout}
	if strings.TrimSpace(opts.APIKey) == "" {
		return g, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(opts.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("configure gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiGenerator) Name() string {
	return geminiProviderName
}

func (g *GeminiGenerator) Generate(ctx context.Context, userInfo, modelHint string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%s: %w", geminiProviderName, ErrProviderUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.resolveModel(modelHint))
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(buildGeminiPrompt(userInfo)))
	if err != nil {
		return "", g.classify(err)
	}
	text := geminiResponseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: empty response: %w", geminiProviderName, ErrProviderMalformed)
	}
	return text, nil
}

// Close releases the underlying SDK client.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGenerator) resolveModel(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return g.model
	}
	return hint
}

func (g *GeminiGenerator) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", geminiProviderName, ErrProviderTimeout)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyStatusError(geminiProviderName, apiErr.Code, apiErr.Message)
	}
	return classifyTransportError(geminiProviderName, err)
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	sb := &strings.Builder{}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

var _ Generator = (*GeminiGenerator)(nil)
