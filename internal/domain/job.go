package domain

import "time"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition may occur from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// GenerationJob tracks one portfolio generation request from submission
// to its terminal state. Portfolio and Provider are set only on
// completion, FailureReason only on failure.
type GenerationJob struct {
	ID            string
	Status        JobStatus
	Portfolio     string
	Provider      string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
