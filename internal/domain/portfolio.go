package domain

import "time"

// Portfolio is a published single-page site owned by one user and
// served under a unique subdomain.
type Portfolio struct {
	ID          string
	UserID      string
	Subdomain   string
	HTMLContent string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
