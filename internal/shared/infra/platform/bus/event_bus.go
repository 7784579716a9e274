package bus

import (
	"context"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// EventPublisher es la capacidad abstracta de transporte que usa el procesador de outbox.
// La semántica de topic/exchange y formato del mensaje la deciden los adapters.
type EventPublisher interface {
	Publish(ctx context.Context, msg sharedDomain.OutboxMessage) error
}

// MessageHandler lo implementa cualquier consumidor de mensajes entrantes.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte) error
}
