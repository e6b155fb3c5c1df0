package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the identity domain. Handlers translate these into
// HTTP status codes; anything else is a 500.
var (
	// ErrConflict signals a uniqueness violation (duplicate username/email).
	ErrConflict = errors.New("resource already exists")
	// ErrAuthentication covers both unknown-account and wrong-password so
	// responses do not reveal which part failed.
	ErrAuthentication = errors.New("invalid username or password")
	// ErrInvalidToken is returned for refresh tokens that do not exist.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrRevokedToken is returned when the refresh token was already revoked.
	ErrRevokedToken = errors.New("refresh token has been revoked")
	// ErrExpiredToken is returned when the refresh token is past its expiry.
	ErrExpiredToken = errors.New("refresh token has expired")
	// ErrNotFound is returned when a requested aggregate does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotImplemented marks interface members intentionally left unbuilt.
	ErrNotImplemented = errors.New("not implemented")
)

// ValidationError reports a broken domain rule on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a domain validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
