package application

import (
	"context"

	"github.com/voltshop/backend/internal/domain/entity"
	"github.com/voltshop/backend/pkg/helpers"
)

// EventDispatcher publishes domain events after a successful persistence
// step. Dispatch is synchronous within the request; there is no durable
// outbox, so delivery is at-most-once across process crashes.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []entity.DomainEvent) error
}

// RabbitDispatcher publishes events to a durable RabbitMQ queue.
type RabbitDispatcher struct {
	Pub *helpers.RabbitPublisher
}

func NewRabbitDispatcher(pub *helpers.RabbitPublisher) *RabbitDispatcher {
	return &RabbitDispatcher{Pub: pub}
}

type eventEnvelope struct {
	Name    string             `json:"name"`
	Payload entity.DomainEvent `json:"payload"`
}

func (d *RabbitDispatcher) Dispatch(ctx context.Context, events []entity.DomainEvent) error {
	if d.Pub == nil {
		return nil
	}
	for _, ev := range events {
		if err := d.Pub.PublishJSON(ctx, eventEnvelope{Name: ev.EventName(), Payload: ev}); err != nil {
			return err
		}
	}
	return nil
}

// NopDispatcher drops events. Used when the broker is not configured and
// in tests.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, []entity.DomainEvent) error { return nil }
