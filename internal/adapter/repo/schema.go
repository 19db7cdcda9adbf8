package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS generation_jobs (
    id             uuid PRIMARY KEY,
    status         text NOT NULL,
    portfolio      text NOT NULL DEFAULT '',
    provider       text NOT NULL DEFAULT '',
    failure_reason text NOT NULL DEFAULT '',
    created_at     timestamptz NOT NULL,
    updated_at     timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolios (
    id           uuid PRIMARY KEY,
    user_id      text NOT NULL UNIQUE,
    subdomain    text NOT NULL UNIQUE,
    html_content text NOT NULL,
    created_at   timestamptz NOT NULL,
    updated_at   timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generation_jobs_status ON generation_jobs (status);
`

// EnsureSchema creates the tables both repositories depend on. The DDL
// is idempotent, so running it on every startup is safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
