package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid action or missing data")
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrMissingCustomer   = fmt.Errorf("%w: customer is required", ErrValidation)
	ErrUnknownAction     = fmt.Errorf("%w: unknown action", ErrValidation)
	ErrUnsafeText        = fmt.Errorf("%w: text cannot be written to the ledger", ErrValidation)
	ErrUnbalanced        = errors.New("entry postings do not sum to zero")
	ErrNothingToReverse  = errors.New("nothing to reverse")
	ErrMalformedEntry    = errors.New("malformed ledger entry")
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrNotFound          = errors.New("not found")
	ErrLockNotObtained   = errors.New("ledger lock not obtained")
)
