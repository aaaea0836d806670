package service

import (
	"errors"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/repository"
)

// repoError maps repository sentinels onto client-facing errors.
func repoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.AlreadyExists(resource)
	default:
		return apperrors.Database(err)
	}
}

// fieldErrors collects per-field validation failures.
type fieldErrors map[string]string

func (f fieldErrors) add(field, reason string) {
	if _, exists := f[field]; !exists {
		f[field] = reason
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.ValidationError("Validation failed").WithDetails(map[string]string(f))
}
