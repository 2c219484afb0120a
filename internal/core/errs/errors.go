// Package errs holds the error kinds shared by the core services and the
// adapters. Callers wrap them with %w and match with errors.Is.
package errs

import "errors"

var (
	// input errors, detected before touching the store
	ErrValidation = errors.New("validation error")

	// credential store
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// token service; expired, malformed and bad signature all wrap this one
	ErrTokenInvalid = errors.New("invalid token")

	// content and engagement stores
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyLiked        = errors.New("already liked")
	ErrConstraintViolation = errors.New("constraint violation")

	// database unreachable or transaction failed
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
