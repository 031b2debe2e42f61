package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvariantViolation    = errors.New("invariant violation")
	ErrStandingsNotSynced    = errors.New("standings not synced")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
