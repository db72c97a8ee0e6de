package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeCatalogFetch      = "CATALOG_FETCH_FAILED"
	ErrCodeCartStorage       = "CART_STORAGE_FAILED"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeOrderCreation     = "ORDER_CREATION_FAILED"
	ErrCodeTermsNotAccepted  = "TERMS_NOT_ACCEPTED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodePaymentFailed     = "PAYMENT_FAILED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that errors built with
// NewValidationError match ErrValidation.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a form-level validation error for a single field.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrCatalogFetch      = NewDomainError(ErrCodeCatalogFetch, "Could not load the catalogue, please retry")
	ErrCartStorage       = NewDomainError(ErrCodeCartStorage, "Cart could not be saved")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrValidation        = NewDomainError(ErrCodeValidation, "Validation failed")
	ErrOrderCreation     = NewDomainError(ErrCodeOrderCreation, "Order could not be placed, please try again")
	ErrTermsNotAccepted  = NewDomainError(ErrCodeTermsNotAccepted, "Terms and conditions must be accepted")
	ErrNotFound          = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Action not allowed at this step")
	ErrPaymentFailed     = NewDomainError(ErrCodePaymentFailed, "Payment could not be completed")
)
