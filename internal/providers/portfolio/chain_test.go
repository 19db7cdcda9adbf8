package portfolio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type fakeGenerator struct {
	name   string
	text   string
	err    error
	called int
}

func (f *fakeGenerator) Name() string {
	return f.name
}

func (f *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	f.called++
	return f.text, f.err
}

func TestChainFallsThroughToFirstSuccess(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", err: fmt.Errorf("gemini: %w", ErrProviderRejected)}
	fallbackA := &fakeGenerator{name: "groq", text: "<html>ok</html>"}
	fallbackB := &fakeGenerator{name: "huggingface", text: "<html>unused</html>"}
	chain := NewChain(zerolog.Nop(), primary, fallbackA, fallbackB)

	html, provider, err := chain.Run(context.Background(), "info", "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if provider != "groq" {
		t.Fatalf("provider = %q, want %q", provider, "groq")
	}
	if html != "<html>ok</html>" {
		t.Fatalf("html = %q", html)
	}
	if fallbackB.called != 0 {
		t.Fatal("third adapter called after earlier success")
	}
}

func TestChainStopsAtFirstAdapterOnSuccess(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", text: "<html>first</html>"}
	fallbackA := &fakeGenerator{name: "groq", text: "<html>second</html>"}
	chain := NewChain(zerolog.Nop(), primary, fallbackA)

	_, provider, err := chain.Run(context.Background(), "info", "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if provider != "gemini" {
		t.Fatalf("provider = %q, want %q", provider, "gemini")
	}
	if fallbackA.called != 0 {
		t.Fatal("fallback called although primary succeeded")
	}
}

func TestChainExhaustion(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", err: fmt.Errorf("gemini: %w", ErrProviderUnavailable)}
	fallbackA := &fakeGenerator{name: "groq", err: fmt.Errorf("groq: %w", ErrProviderTimeout)}
	chain := NewChain(zerolog.Nop(), primary, fallbackA)

	_, _, err := chain.Run(context.Background(), "info", "")
	if !errors.Is(err, ErrAllProvidersExhausted) {
		t.Fatalf("err = %v, want ErrAllProvidersExhausted", err)
	}
}

func TestChainTreatsEmptyAfterTrimAsFailure(t *testing.T) {
	primary := &fakeGenerator{name: "gemini", text: "```html\n\n```"}
	fallbackA := &fakeGenerator{name: "groq", text: "<html>real</html>"}
	chain := NewChain(zerolog.Nop(), primary, fallbackA)

	html, provider, err := chain.Run(context.Background(), "info", "")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if provider != "groq" {
		t.Fatalf("provider = %q, want %q", provider, "groq")
	}
	if html != "<html>real</html>" {
		t.Fatalf("html = %q", html)
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "html_fence", input: "```html\n<html></html>\n```", want: "<html></html>"},
		{name: "bare_fence", input: "```\n<html></html>\n```", want: "<html></html>"},
		{name: "no_fence", input: "<html></html>", want: "<html></html>"},
		{name: "whitespace", input: "  \n<html></html>\n\n", want: "<html></html>"},
		{name: "empty_fenced", input: "```html\n```", want: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := StripCodeFences(tc.input)
			if got != tc.want {
				t.Fatalf("StripCodeFences(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if again := StripCodeFences(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}
