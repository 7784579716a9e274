package behaviors

import (
	"context"
	"fmt"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
)

// EventPublishing vacía el buffer de cada agregado registrado y publica sus eventos
// en el dispatcher, donde el handler de outbox los guarda en la transacción en curso.
type EventPublishing struct {
	tracker  Tracker
	notifier mediator.Notifier
}

func NewEventPublishing(tracker Tracker, notifier mediator.Notifier) *EventPublishing {
	return &EventPublishing{tracker: tracker, notifier: notifier}
}

func (b *EventPublishing) Handle(ctx context.Context, req mediator.Request, next mediator.Next) (any, error) {
	res, err := next(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, entity := range b.tracker.Tracked() {
		for _, evt := range entity.PullEvents() {
			if err := b.notifier.Publish(ctx, evt); err != nil {
				return nil, fmt.Errorf("staging %s for %s: %w", evt.EventType(), entity.Identity(), err)
			}
		}
	}
	return res, nil
}
