package publish

import (
	"context"
	"errors"
	"testing"

	"portfolium/internal/domain"
)

type stubPortfolioRepo struct {
	taken map[string]bool
	err   error
}

func (s *stubPortfolioRepo) Create(context.Context, *domain.Portfolio) error { return nil }
func (s *stubPortfolioRepo) Update(context.Context, *domain.Portfolio) error { return nil }

func (s *stubPortfolioRepo) GetBySubdomain(context.Context, string) (*domain.Portfolio, error) {
	return nil, domain.ErrNotFound
}

func (s *stubPortfolioRepo) GetByUserID(context.Context, string) (*domain.Portfolio, error) {
	return nil, domain.ErrNotFound
}

func (s *stubPortfolioRepo) SubdomainExists(_ context.Context, subdomain string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.taken[subdomain], nil
}

func (s *stubPortfolioRepo) DeleteByUserID(context.Context, string) error { return nil }

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		subdomain string
		want      error
	}{
		{name: "too_short", subdomain: "ab", want: ErrSubdomainLength},
		{name: "reserved", subdomain: "www", want: ErrSubdomainReserved},
		{name: "uppercase", subdomain: "My-Site", want: ErrSubdomainFormat},
		{name: "leading_hyphen", subdomain: "-site", want: ErrSubdomainFormat},
		{name: "trailing_hyphen", subdomain: "site-", want: ErrSubdomainFormat},
		{name: "too_long", subdomain: "a123456789a123456789a123456789a123456789a123456789a123456789abcd", want: ErrSubdomainLength},
		{name: "valid", subdomain: "my-site-1", want: nil},
		{name: "valid_min", subdomain: "abc", want: nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateFormat(tc.subdomain); !errors.Is(got, tc.want) {
				t.Fatalf("ValidateFormat(%q) = %v, want %v", tc.subdomain, got, tc.want)
			}
		})
	}
}

func TestCheckAcceptsFreeSubdomain(t *testing.T) {
	gate := NewGate(&stubPortfolioRepo{taken: map[string]bool{}})
	if err := gate.Check(context.Background(), "my-site-1"); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
}

func TestCheckRejectsTakenSubdomain(t *testing.T) {
	gate := NewGate(&stubPortfolioRepo{taken: map[string]bool{"my-site-1": true}})
	err := gate.Check(context.Background(), "my-site-1")
	if !errors.Is(err, ErrSubdomainTaken) {
		t.Fatalf("err = %v, want ErrSubdomainTaken", err)
	}
	if errors.Is(err, ErrSubdomainFormat) {
		t.Fatal("taken must be distinct from a format rejection")
	}
}

func TestCheckReportsLookupFailureDistinctly(t *testing.T) {
	gate := NewGate(&stubPortfolioRepo{err: errors.New("connection reset")})
	err := gate.Check(context.Background(), "my-site-1")
	if !errors.Is(err, ErrAvailabilityCheck) {
		t.Fatalf("err = %v, want ErrAvailabilityCheck", err)
	}
	if errors.Is(err, ErrSubdomainTaken) {
		t.Fatal("lookup failure must not read as taken")
	}
}

func TestCheckShortCircuitsBeforeLookup(t *testing.T) {
	// A format failure must never reach the repository.
	gate := NewGate(&stubPortfolioRepo{err: errors.New("must not be called")})
	if err := gate.Check(context.Background(), "Bad-Subdomain"); !errors.Is(err, ErrSubdomainFormat) {
		t.Fatalf("err = %v, want ErrSubdomainFormat", err)
	}
}
