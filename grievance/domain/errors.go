package domain

import "errors"

// Error kinds returned to callers. Each message starts with a stable
// upper-case token so the wrapper service can surface the kind verbatim.
// Transition failures are reported through
// validation.InvalidTransitionError, which carries both states.
var (
	// ErrUnauthorized: caller is neither the owner nor an authorized officer.
	ErrUnauthorized = errors.New("UNAUTHORIZED")

	// ErrNotOwner: non-owner attempted an owner-only configuration change.
	ErrNotOwner = errors.New("NOT_OWNER")

	// ErrNotFound: referenced id or reference id does not exist.
	ErrNotFound = errors.New("NOT_FOUND")

	// ErrDuplicateReferenceID: submission reused an existing reference id.
	ErrDuplicateReferenceID = errors.New("DUPLICATE_REFERENCE_ID")

	// ErrInvalidInput: required field empty or malformed.
	ErrInvalidInput = errors.New("INVALID_INPUT")
)
