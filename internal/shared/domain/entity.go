package domain

import (
	"github.com/google/uuid"
)

// Identity identifica una entidad por su tipo y su id. Es la clave de la unidad de trabajo.
type Identity struct {
	Kind string
	ID   uuid.UUID
}

func (i Identity) String() string {
	return i.Kind + ":" + i.ID.String()
}

// Entity es cualquier raíz de agregado que se registra en la unidad de trabajo.
type Entity interface {
	Identity() Identity
	PendingEvents() []DomainEvent
	PullEvents() []DomainEvent
}

// AggregateRoot se embebe en los agregados y guarda los eventos pendientes en orden de llegada.
// Sólo el pipeline debe vaciarlo con PullEvents.
type AggregateRoot struct {
	events []DomainEvent
}

// Record añade un evento al buffer.
func (a *AggregateRoot) Record(evt DomainEvent) {
	a.events = append(a.events, evt)
}

// PendingEvents devuelve una copia de los eventos aún no extraídos.
func (a *AggregateRoot) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

// PullEvents vacía el buffer y devuelve su contenido.
func (a *AggregateRoot) PullEvents() []DomainEvent {
	out := a.events
	a.events = nil
	return out
}
