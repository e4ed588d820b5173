package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondDomainError(w http.ResponseWriter, err error) {
	RespondAppError(w, appErrorFor(err), nil)
}

func appErrorFor(err error) *AppError {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, domain.ErrMissingCustomer):
		return ErrMissingCustomer
	case errors.Is(err, domain.ErrUnknownAction):
		return ErrUnknownAction
	case errors.Is(err, domain.ErrValidation):
		return ErrValidationFailed
	case errors.Is(err, domain.ErrNothingToReverse):
		return ErrNothingToReverse
	case errors.Is(err, domain.ErrMalformedEntry):
		return ErrMalformedEntry
	case errors.Is(err, domain.ErrLockNotObtained):
		return ErrLedgerBusy
	case errors.Is(err, domain.ErrLedgerUnavailable):
		return ErrLedgerUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return ErrResourceNotFound
	default:
		slog.Error("unhandled domain error", "error", err)
		return ErrInternalError
	}
}
