package application

import (
	"context"
	stderrors "errors"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/resilience"
)

// Collaborator names used in user-visible error messages
const (
	serviceOCR         = "OCR service"
	serviceTranslation = "translation service"
	serviceDirections  = "directions service"
)

// externalError maps a failed collaborator call. An open breaker is reported
// as unavailable, a deadline as a timeout, anything else as a bad gateway.
func externalError(service string, err error) *errors.AppError {
	switch {
	case resilience.IsRejection(err):
		return errors.ErrServiceUnavailable(service).Wrap(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrTimeout(service).Wrap(err)
	default:
		return errors.ErrExternalService(service).Wrap(err)
	}
}

// productValidationError turns domain validation errors into a field map
func productValidationError(err error) *errors.AppError {
	var verrs domain.ValidationErrors
	if stderrors.As(err, &verrs) {
		return errors.ErrValidationWithFields("invalid product descriptor", verrs.Fields()).Wrap(err)
	}
	return errors.ErrValidation(err.Error()).Wrap(err)
}
