package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrJobTerminal = errors.New("job already in terminal state")
)
