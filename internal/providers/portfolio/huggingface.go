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
	huggingFaceProviderName   = "huggingface"
	huggingFaceDefaultModel   = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	huggingFaceDefaultBaseURL = "https://api-inference.huggingface.co"
	huggingFaceDefaultTimeout = 30 * time.Second
)

type HuggingFaceOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// HuggingFaceGenerator is the last-resort fallback, calling the hosted
// inference API.
type HuggingFaceGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxNewTokens int     `json:"max_new_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

type huggingFaceResult struct {
	GeneratedText string `json:"generated_text"`
}

type huggingFaceErrorResponse struct {
	Error string `json:"error"`
}

func NewHuggingFaceGenerator(opts HuggingFaceOptions) *HuggingFaceGenerator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = huggingFaceDefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = huggingFaceDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: huggingFaceDefaultTimeout}
	}
	return &HuggingFaceGenerator{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

func (h *HuggingFaceGenerator) Name() string {
	return huggingFaceProviderName
}

func (h *HuggingFaceGenerator) Generate(ctx context.Context, userInfo, _ string) (string, error) {
	if h.apiKey == "" {
		return "", fmt.Errorf("%s: %w", huggingFaceProviderName, ErrProviderUnavailable)
	}
	payload := huggingFaceRequest{
		Inputs: buildHuggingFacePrompt(userInfo),
		Parameters: huggingFaceParameters{
			MaxNewTokens: 3000,
			Temperature:  0.7,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%s: encode request: %w", huggingFaceProviderName, err)
	}
	endpoint := h.baseURL + "/models/" + h.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", huggingFaceProviderName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(huggingFaceProviderName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		var apiErr huggingFaceErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", classifyStatusError(huggingFaceProviderName, resp.StatusCode, apiErr.Error)
	}
	var out []huggingFaceResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", huggingFaceProviderName, ErrProviderMalformed)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return "", fmt.Errorf("%s: empty response: %w", huggingFaceProviderName, ErrProviderMalformed)
	}
	return out[0].GeneratedText, nil
}

var _ Generator = (*HuggingFaceGenerator)(nil)
