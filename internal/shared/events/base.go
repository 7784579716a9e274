package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// IntegrationEvent es el sobre JSON que viaja por los brokers.
// Los consumidores deduplican por MessageID.
type IntegrationEvent struct {
	MessageID uuid.UUID       `json:"message_id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// FromOutbox construye el sobre de un mensaje de outbox.
func FromOutbox(msg sharedDomain.OutboxMessage) IntegrationEvent {
	return IntegrationEvent{
		MessageID: msg.MessageID,
		Type:      msg.EventType,
		Timestamp: msg.CreatedAt,
		Data:      msg.Payload,
	}
}

// Encode serializa el sobre.
func Encode(msg sharedDomain.OutboxMessage) ([]byte, error) {
	return json.Marshal(FromOutbox(msg))
}

func Decode(payload []byte) (IntegrationEvent, error) {
	var evt IntegrationEvent
	err := json.Unmarshal(payload, &evt)
	return evt, err
}
