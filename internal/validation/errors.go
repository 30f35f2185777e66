package validation

import (
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

// ValidationError описывает ошибку валидации конкретного поля
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e ValidationError) Is(target error) bool {
	return target == app_errors.ErrValidation
}
