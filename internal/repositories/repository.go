package repositories

import (
	"errors"
	"fmt"
	"inventory/internal/apperrors"

	"gorm.io/gorm"
)

// translate maps driver errors onto the application sentinels so callers
// can branch with errors.Is.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
	case apperrors.IsUniqueViolation(err) && !errors.Is(err, apperrors.ErrUniquenessViolation):
		return fmt.Errorf("%w: %w", apperrors.ErrUniquenessViolation, err)
	default:
		return err
	}
}
