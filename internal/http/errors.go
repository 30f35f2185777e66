package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
)

const unexpectedErrorMessage = "unexpected error, try again"

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// statusFor сопоставляет доменную ошибку HTTP статусу. 0 означает непредвиденную ошибку.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app_errors.ErrValidation),
		errors.Is(err, app_errors.ErrInvalidTicketStat),
		errors.Is(err, app_errors.ErrUnknownPlan):
		return http.StatusBadRequest
	case errors.Is(err, app_errors.ErrUnauthenticated),
		errors.Is(err, app_errors.ErrInvalidCredentials),
		errors.Is(err, app_errors.ErrInvalidRefreshToken),
		errors.Is(err, app_errors.ErrPasswordRequired),
		errors.Is(err, app_errors.ErrIncorrectPassword):
		return http.StatusUnauthorized
	case errors.Is(err, app_errors.ErrAccessDenied),
		errors.Is(err, app_errors.ErrForbidden),
		errors.Is(err, app_errors.ErrNotOwner),
		errors.Is(err, app_errors.ErrPremiumRequired):
		return http.StatusForbidden
	case errors.Is(err, app_errors.ErrLinkNotFound),
		errors.Is(err, app_errors.ErrUserNotFound),
		errors.Is(err, app_errors.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, app_errors.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, app_errors.ErrLinkExpired):
		return http.StatusGone
	case errors.Is(err, app_errors.ErrUploadLimit):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, app_errors.ErrSourceMissing),
		errors.Is(err, app_errors.ErrNoActivePlan),
		errors.Is(err, app_errors.ErrNoMatchingPlan):
		return http.StatusUnprocessableEntity
	}
	return 0
}

// writeServiceError пишет ответ для ошибки сервиса. Непредвиденные ошибки логируются,
// а клиент получает общее сообщение.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == 0 {
		logger.FromContext(r.Context()).Error("Unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, unexpectedErrorMessage)
		return
	}

	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	}
	if errors.Is(err, app_errors.ErrPasswordRequired) {
		resp.PasswordRequired = true
	}
	writeJSON(w, status, resp)
}
