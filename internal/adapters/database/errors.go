package database

import (
	"errors"
	"fmt"

	"blogapi/internal/core/errs"

	"gorm.io/gorm"
)

var domainErrors = []error{
	errs.ErrValidation,
	errs.ErrDuplicateUsername,
	errs.ErrInvalidCredentials,
	errs.ErrTokenInvalid,
	errs.ErrNotFound,
	errs.ErrForbidden,
	errs.ErrAlreadyLiked,
	errs.ErrConstraintViolation,
	errs.ErrPersistenceUnavailable,
}

// dbError converts an error coming out of gorm into the error taxonomy.
// Errors that already belong to it pass through untouched; anything the
// driver reports that is not a known constraint is treated as the store
// being unavailable.
func dbError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", errs.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%w: %w", errs.ErrPersistenceUnavailable, err)
}
