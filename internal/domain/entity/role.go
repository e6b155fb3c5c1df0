package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltshop/backend/internal/domain"
)

// Role is an authorization role. NormalizedName (upper-cased) is the
// uniqueness key, matching the users/roles schema.
type Role struct {
	ID             string
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}

// NewRole validates the name and assigns an id.
func NewRole(name string) (*Role, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name", "role name cannot be empty")
	}
	return &Role{
		ID:             uuid.NewString(),
		Name:           name,
		NormalizedName: strings.ToUpper(name),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// RehydrateRole rebuilds a Role from storage without validation.
func RehydrateRole(id, name, normalized string, createdAt time.Time) *Role {
	return &Role{ID: id, Name: name, NormalizedName: normalized, CreatedAt: createdAt}
}
