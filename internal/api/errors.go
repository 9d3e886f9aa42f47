package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, domain.ErrDuplicateCard):
		return http.StatusConflict

	// A payment that cannot be funded
	case errors.Is(err, domain.ErrNoCreditCard):
		return http.StatusPaymentRequired

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidCreditCard),
		errors.Is(err, domain.ErrSelfPayment),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidFriend),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, domain.ErrDuplicateCard):
		return "User already has a credit card"

	case errors.Is(err, domain.ErrNoCreditCard):
		return "No credit card on file to fund this payment"

	case errors.Is(err, domain.ErrInvalidUsername):
		return "Invalid username"

	case errors.Is(err, domain.ErrInvalidCreditCard):
		return "Invalid credit card number"

	case errors.Is(err, domain.ErrSelfPayment):
		return "Users cannot pay themselves"

	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "Amount must be positive"

	case errors.Is(err, domain.ErrNegativeAmount):
		return "Amount cannot be negative"

	case errors.Is(err, domain.ErrInvalidFriend):
		return "Cannot add the same friend twice or yourself"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message and
// writes the response, logging the full (redacted) error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
