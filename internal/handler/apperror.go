package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Invalid action or missing data"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
	ErrRateLimited      = &AppError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please retry shortly"}

	ErrInvalidAmount     = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrMissingCustomer   = &AppError{http.StatusBadRequest, "MISSING_CUSTOMER", "Customer is required"}
	ErrUnknownAction     = &AppError{http.StatusBadRequest, "UNKNOWN_ACTION", "Unknown action"}
	ErrNothingToReverse  = &AppError{http.StatusBadRequest, "NOTHING_TO_REVERSE", "No entry to reverse"}
	ErrMalformedEntry    = &AppError{http.StatusUnprocessableEntity, "MALFORMED_ENTRY", "Entry is not a balanced ledger entry"}
	ErrLedgerUnavailable = &AppError{http.StatusServiceUnavailable, "LEDGER_UNAVAILABLE", "Ledger is unavailable"}
	ErrLedgerBusy        = &AppError{http.StatusServiceUnavailable, "LEDGER_BUSY", "Ledger is busy, please retry"}
)
