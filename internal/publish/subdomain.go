// Package publish guards the path from a generated artifact to a
// publicly served portfolio: a subdomain must pass format, length,
// reserved-word and uniqueness checks before anything is persisted.
package publish

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"portfolium/internal/domain"
)

const (
	subdomainMinLength = 3
	subdomainMaxLength = 63
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var reservedSubdomains = map[string]struct{}{
	"www":       {},
	"api":       {},
	"admin":     {},
	"app":       {},
	"dashboard": {},
	"mail":      {},
	"smtp":      {},
	"ftp":       {},
	"test":      {},
	"dev":       {},
	"staging":   {},
}

// Rejection reasons, one per rule. A lookup failure is deliberately
// distinct from "taken" so callers can tell a transient backend error
// from a real conflict.
var (
	ErrSubdomainFormat   = errors.New("subdomain must contain only lowercase letters, numbers, and hyphens (not at start/end)")
	ErrSubdomainLength   = errors.New("subdomain must be between 3 and 63 characters")
	ErrSubdomainReserved = errors.New("this subdomain is reserved")
	ErrSubdomainTaken    = errors.New("this subdomain is already taken")
	ErrAvailabilityCheck = errors.New("failed to check subdomain availability")
)

// ValidateFormat applies the local rules in order: pattern, length,
// reserved word. The first failing rule wins.
func ValidateFormat(subdomain string) error {
	if !subdomainPattern.MatchString(subdomain) {
		return ErrSubdomainFormat
	}
	if len(subdomain) < subdomainMinLength || len(subdomain) > subdomainMaxLength {
		return ErrSubdomainLength
	}
	if _, reserved := reservedSubdomains[subdomain]; reserved {
		return ErrSubdomainReserved
	}
	return nil
}

// Gate validates subdomains against both local rules and the portfolio
// collection.
type Gate struct {
	portfolios domain.PortfolioRepository
}

func NewGate(portfolios domain.PortfolioRepository) *Gate {
	return &Gate{portfolios: portfolios}
}

// Check runs the full rule chain. The uniqueness lookup comes last
// because it is the only rule that needs a remote round trip.
func (g *Gate) Check(ctx context.Context, subdomain string) error {
	if err := ValidateFormat(subdomain); err != nil {
		return err
	}
	taken, err := g.portfolios.SubdomainExists(ctx, subdomain)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAvailabilityCheck, err)
	}
	if taken {
		return ErrSubdomainTaken
	}
	return nil
}
