package services

import (
	"errors"

	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func asAppError(err error, target **apperrors.AppError) bool {
	return errors.As(err, target)
}
