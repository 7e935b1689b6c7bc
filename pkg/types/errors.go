package types

import "errors"

var (
	ErrNeedNotFound       = errors.New("need not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrInvalidInput wraps validation failures surfaced before any store
	// mutation.
	ErrInvalidInput = errors.New("invalid input")

	// Conflict outcomes. These are user-actionable and must stay
	// distinguishable from generic failures.
	ErrAlreadyCommitted = errors.New("you're already signed up for this need")
	ErrNeedNotActive    = errors.New("need is not open for volunteers")

	// ErrNotAuthorized covers non-leaders attempting leader-gated
	// transitions and volunteers touching commitments they do not own.
	// It deliberately does not reveal whether the target row exists.
	ErrNotAuthorized = errors.New("not authorized")
)
