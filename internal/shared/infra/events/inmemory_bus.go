package events

import (
	"context"
	"sync"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	sharedEvents "github.com/davicafu/meetups/internal/shared/events"
	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic, con canales de Go.
// Si un suscriptor tiene el buffer lleno, Publish falla y la fila queda en la outbox.
type InMemoryEventBus struct {
	subscribers []chan []byte
	mu          sync.RWMutex
	topic       string // Identificador del topic que maneja este bus
}

// Verifica en tiempo de compilación que cumple la interfaz
var _ sharedBus.EventPublisher = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus crea un bus de eventos para un topic específico.
func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan []byte, 0),
		topic:       topic,
	}
}

func (b *InMemoryEventBus) Topic() string { return b.topic }

// Publish envía el sobre JSON a todos los suscriptores de este bus.
func (b *InMemoryEventBus) Publish(ctx context.Context, msg sharedDomain.OutboxMessage) error {
	payload, err := sharedEvents.Encode(msg)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub <- payload:
		case <-ctx.Done():
			return ctx.Err()
		default:
			return ErrSubscriberFull
		}
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	subChan := make(chan []byte, bufferSize)
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// BackgroundConsumerChan entrega a handler cada mensaje del canal hasta que se cancela ctx.
func BackgroundConsumerChan(ctx context.Context, ch <-chan []byte, handler sharedBus.MessageHandler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case payload := <-ch:
				// La 'key' no es relevante en el bus en memoria, pasamos una vacía.
				_ = handler.HandleMessage(ctx, "", payload)
			}
		}
	}()
}
