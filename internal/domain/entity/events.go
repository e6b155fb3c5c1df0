package entity

import "time"

// DomainEvent is a fact recorded by an aggregate during a business
// operation. Events are queued on the aggregate and dispatched after the
// surrounding persistence succeeds.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// UserCreated is raised by the User factory.
type UserCreated struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	At       time.Time `json:"occurred_at"`
}

func (e UserCreated) EventName() string     { return "identity.user.created" }
func (e UserCreated) OccurredAt() time.Time { return e.At }
