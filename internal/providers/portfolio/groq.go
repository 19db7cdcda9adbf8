package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	groqProviderName   = "groq"
	groqDefaultModel   = "llama-3.3-70b-versatile"
	groqDefaultBaseURL = "https://api.groq.com/openai/v1"
	groqDefaultTimeout = 30 * time.Second
)

type GroqOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GroqGenerator is the first fallback, speaking the OpenAI-compatible
// chat completions protocol.
type GroqGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type groqErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGroqGenerator(opts GroqOptions) *GroqGenerator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = groqDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = groqDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: groqDefaultTimeout}
	}
	return &GroqGenerator{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

func (g *GroqGenerator) Name() string {
	return groqProviderName
}

func (g *GroqGenerator) Generate(ctx context.Context, userInfo, _ string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%s: %w", groqProviderName, ErrProviderUnavailable)
	}
	payload := groqChatRequest{
		Model:       g.model,
		Temperature: 0.7,
		MaxTokens:   4000,
		Messages: []groqMessage{
			{Role: "system", Content: groqSystemPrompt},
			{Role: "user", Content: buildGroqPrompt(userInfo)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%s: encode request: %w", groqProviderName, err)
	}
	endpoint := g.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", groqProviderName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(groqProviderName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		var apiErr groqErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", classifyStatusError(groqProviderName, resp.StatusCode, apiErr.Error.Message)
	}
	var out groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", groqProviderName, ErrProviderMalformed)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices: %w", groqProviderName, ErrProviderMalformed)
	}
	text := out.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: empty response: %w", groqProviderName, ErrProviderMalformed)
	}
	return text, nil
}

var _ Generator = (*GroqGenerator)(nil)
