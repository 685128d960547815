package services

import "errors"

// Failure categories surfaced to the HTTP layer. Controllers map these to
// status codes; anything unwrapped is an internal error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
)
