package outbox

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Writer inserta mensajes usando la conexión que se le pasa.
type Writer interface {
	Store(ctx context.Context, exec sqlx.ExtContext, msg sharedDomain.OutboxMessage) error
}

// StoringHandler se registra para toda la categoría de eventos de dominio: cada evento
// publicado se guarda como fila de outbox en la misma transacción que los cambios del agregado.
type StoringHandler struct {
	writer Writer
	exec   sqlx.ExtContext
}

func NewStoringHandler(writer Writer, exec sqlx.ExtContext) *StoringHandler {
	return &StoringHandler{writer: writer, exec: exec}
}

var _ mediator.NotificationHandler = (*StoringHandler)(nil)

func (h *StoringHandler) Handle(ctx context.Context, n mediator.Notification) error {
	evt, ok := n.(sharedDomain.DomainEvent)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotADomainEvent, n)
	}
	msg, err := NewMessage(evt)
	if err != nil {
		return err
	}
	return h.writer.Store(ctx, h.exec, msg)
}
