package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the gateway, the point-of-sale components and the HTTP layer.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthExpired        = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("no active session")
	ErrForbidden          = errors.New("admin role required")
	ErrValidation         = errors.New("payload rejected")
	ErrNotFound           = errors.New("resource not found")
	ErrNetwork            = errors.New("cannot reach the server")
	ErrServer             = errors.New("server error")

	ErrProductNotFound    = errors.New("product not in inventory cache")
	ErrSoldOut            = errors.New("product sold out")
	ErrOutOfStock         = errors.New("not enough stock for another unit")
	ErrLineNotFound       = errors.New("cart line out of range")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// APIError carries the backend's answer for a failed call. Kind is one of the
// sentinel errors above so callers can branch with errors.Is.
type APIError struct {
	Op     string
	Status int
	Detail string
	Kind   error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Invalid reports a payload rejected locally, before any network call.
func Invalid(op, detail string) error {
	return &APIError{Op: op, Detail: detail, Kind: ErrValidation}
}

// Detail extracts the server-provided message from err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// CheckoutError reports a rejected or failed sale submission. The cart is left
// untouched so the operator can retry.
type CheckoutError struct {
	Err error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout: %v", e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}
