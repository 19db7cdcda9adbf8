package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolium/internal/domain"
)

// PortfolioRepositoryPG implements domain.PortfolioRepository.
type PortfolioRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepository creates a new portfolio repository backed by PostgreSQL.
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepositoryPG {
	return &PortfolioRepositoryPG{pool: pool}
}

// Create inserts a new portfolio record.
func (r *PortfolioRepositoryPG) Create(ctx context.Context, p *domain.Portfolio) error {
	query := `
INSERT INTO portfolios (id, user_id, subdomain, html_content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, query, p.ID, p.UserID, p.Subdomain, p.HTMLContent, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update rewrites the subdomain and content of an existing portfolio.
func (r *PortfolioRepositoryPG) Update(ctx context.Context, p *domain.Portfolio) error {
	query := `
UPDATE portfolios
SET subdomain = $2,
    html_content = $3,
    updated_at = NOW()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, p.ID, p.Subdomain, p.HTMLContent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBySubdomain fetches the portfolio published under a subdomain.
func (r *PortfolioRepositoryPG) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Portfolio, error) {
	query := `
SELECT id, user_id, subdomain, html_content, created_at, updated_at
FROM portfolios
WHERE subdomain = $1;
`
	return r.scanOne(r.pool.QueryRow(ctx, query, subdomain))
}

// GetByUserID fetches a user's portfolio; each user owns at most one.
func (r *PortfolioRepositoryPG) GetByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	query := `
SELECT id, user_id, subdomain, html_content, created_at, updated_at
FROM portfolios
WHERE user_id = $1;
`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

// SubdomainExists reports whether any portfolio claims the subdomain.
func (r *PortfolioRepositoryPG) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	query := `
SELECT EXISTS (SELECT 1 FROM portfolios WHERE subdomain = $1);
`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, subdomain).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteByUserID removes the user's portfolio if one exists.
func (r *PortfolioRepositoryPG) DeleteByUserID(ctx context.Context, userID string) error {
	query := `
DELETE FROM portfolios WHERE user_id = $1;
`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *PortfolioRepositoryPG) scanOne(row pgx.Row) (*domain.Portfolio, error) {
	var p domain.Portfolio
	if err := row.Scan(&p.ID, &p.UserID, &p.Subdomain, &p.HTMLContent, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ domain.PortfolioRepository = (*PortfolioRepositoryPG)(nil)
