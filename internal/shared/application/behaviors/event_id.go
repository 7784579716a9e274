package behaviors

import (
	"context"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
	"github.com/davicafu/meetups/internal/shared/application/ports"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Tracker expone los agregados registrados en la unidad de trabajo (nuevos, modificados y borrados).
type Tracker interface {
	Tracked() []sharedDomain.Entity
}

// EventIDAssignment asigna un id a cada evento pendiente que aún no lo tenga.
// Sobre un comando actúa después del handler; sobre una notificación, antes de sus handlers.
type EventIDAssignment struct {
	tracker Tracker
	ids     ports.IDGenerator
}

func NewEventIDAssignment(tracker Tracker, ids ports.IDGenerator) *EventIDAssignment {
	return &EventIDAssignment{tracker: tracker, ids: ids}
}

func (b *EventIDAssignment) Handle(ctx context.Context, req mediator.Request, next mediator.Next) (any, error) {
	if n, ok := mediator.NotificationOf(req); ok {
		if evt, ok := n.(sharedDomain.DomainEvent); ok {
			evt.AssignID(b.ids.NewID())
		}
		return next(ctx, req)
	}

	res, err := next(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, entity := range b.tracker.Tracked() {
		for _, evt := range entity.PendingEvents() {
			evt.AssignID(b.ids.NewID())
		}
	}
	return res, nil
}
