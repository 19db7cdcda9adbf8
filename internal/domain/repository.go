package domain

import "context"

// JobRepository defines persistence for generation jobs. MarkCompleted
// and MarkFailed are the only mutations after Create; both refuse to
// overwrite a terminal record.
type JobRepository interface {
	Create(ctx context.Context, job *GenerationJob) error
	GetByID(ctx context.Context, jobID string) (*GenerationJob, error)
	MarkCompleted(ctx context.Context, jobID, portfolio, provider string) error
	MarkFailed(ctx context.Context, jobID, reason string) error
}

// PortfolioRepository defines persistence for published portfolios.
type PortfolioRepository interface {
	Create(ctx context.Context, p *Portfolio) error
	Update(ctx context.Context, p *Portfolio) error
	GetBySubdomain(ctx context.Context, subdomain string) (*Portfolio, error)
	GetByUserID(ctx context.Context, userID string) (*Portfolio, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
