package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// NewMessage serializa el evento en un mensaje de outbox. El id del mensaje es el del evento.
func NewMessage(evt sharedDomain.DomainEvent) (sharedDomain.OutboxMessage, error) {
	if evt.EventID() == uuid.Nil {
		return sharedDomain.OutboxMessage{}, fmt.Errorf("%w: %s", ErrEventWithoutID, evt.EventType())
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return sharedDomain.OutboxMessage{}, fmt.Errorf("marshal %s: %w", evt.EventType(), err)
	}
	agg := evt.AggregateIdentity()
	return sharedDomain.OutboxMessage{
		MessageID:     evt.EventID(),
		AggregateType: agg.Kind,
		AggregateID:   agg.ID.String(),
		EventType:     evt.EventType(),
		Payload:       payload,
		CreatedAt:     evt.OccurredAt(),
	}, nil
}
