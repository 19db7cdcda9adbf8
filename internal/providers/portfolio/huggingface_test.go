package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestHuggingFaceGenerateSuccess(t *testing.T) {
	gen := NewHuggingFaceGenerator(HuggingFaceOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if !strings.Contains(r.URL.Path, "Mixtral-8x7B-Instruct") {
				t.Fatalf("path = %q", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			var req huggingFaceRequest
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.Parameters.MaxNewTokens != 3000 {
				t.Fatalf("max_new_tokens = %d", req.Parameters.MaxNewTokens)
			}
			return jsonResponse(http.StatusOK, `[{"generated_text":"<html>hf</html>"}]`), nil
		})},
	})
	html, err := gen.Generate(context.Background(), "bio", "")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if html != "<html>hf</html>" {
		t.Fatalf("html = %q", html)
	}
}

func TestHuggingFaceGenerateMissingKeyFailsFast(t *testing.T) {
	gen := NewHuggingFaceGenerator(HuggingFaceOptions{
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			t.Fatal("network call made without credentials")
			return nil, nil
		})},
	})
	_, err := gen.Generate(context.Background(), "bio", "")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestHuggingFaceGenerateModelLoading(t *testing.T) {
	gen := NewHuggingFaceGenerator(HuggingFaceOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusServiceUnavailable, `{"error":"model is currently loading"}`), nil
		})},
	})
	_, err := gen.Generate(context.Background(), "bio", "")
	if !errors.Is(err, ErrProviderRejected) {
		t.Fatalf("err = %v, want ErrProviderRejected", err)
	}
}

func TestHuggingFaceGenerateEmptyResult(t *testing.T) {
	gen := NewHuggingFaceGenerator(HuggingFaceOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `[]`), nil
		})},
	})
	_, err := gen.Generate(context.Background(), "bio", "")
	if !errors.Is(err, ErrProviderMalformed) {
		t.Fatalf("err = %v, want ErrProviderMalformed", err)
	}
}
