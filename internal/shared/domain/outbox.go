package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxMessage es una fila de la tabla outbox. Su presencia significa "no entregado".
type OutboxMessage struct {
	MessageID     uuid.UUID       `json:"message_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"last_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OutboxRepository es el lado de lectura/borrado que usa el procesador.
type OutboxRepository interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	// AckOutbox borra la fila: es la confirmación de entrega.
	AckOutbox(ctx context.Context, id uuid.UUID) error
	// NackOutbox registra un intento fallido y deja la fila para la siguiente pasada.
	NackOutbox(ctx context.Context, id uuid.UUID, reason string) error
	CountPending(ctx context.Context) (int, error)
}

// DeadLetterStore guarda los mensajes que agotaron sus intentos.
type DeadLetterStore interface {
	StoreDeadLetter(ctx context.Context, msg OutboxMessage, reason string) error
}
