package entity

import (
	"net/mail"
	"strings"

	"github.com/voltshop/backend/internal/domain"
)

// Email is a validated email address. Equality is case-insensitive; the
// stored casing is preserved for display.
type Email struct {
	value string
}

// NewEmail validates and wraps an email address.
func NewEmail(value string) (Email, error) {
	if strings.TrimSpace(value) == "" {
		return Email{}, domain.NewValidationError("email", "cannot be empty")
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return Email{}, domain.NewValidationError("email", "invalid email format")
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Normalized returns the lower-cased form used for uniqueness checks.
func (e Email) Normalized() string { return strings.ToLower(e.value) }

// Equals compares two addresses case-insensitively.
func (e Email) Equals(other Email) bool { return e.Normalized() == other.Normalized() }
