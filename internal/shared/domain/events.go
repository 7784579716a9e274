package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent es un hecho inmutable sobre un cambio de estado.
// El id se asigna en el pipeline, justo antes de salir del agregado.
type DomainEvent interface {
	EventType() string
	EventID() uuid.UUID
	AssignID(id uuid.UUID) bool
	OccurredAt() time.Time
	AggregateIdentity() Identity
}

// EventBase se embebe en todos los eventos de dominio.
type EventBase struct {
	ID        uuid.UUID `json:"event_id"`
	EventDate time.Time `json:"event_date"`
}

func NewEventBase(at time.Time) EventBase {
	return EventBase{EventDate: at.UTC()}
}

func (e *EventBase) EventID() uuid.UUID {
	return e.ID
}

// AssignID sólo asigna el id si aún no tiene uno. Devuelve true si lo asignó.
func (e *EventBase) AssignID(id uuid.UUID) bool {
	if e.ID != uuid.Nil {
		return false
	}
	e.ID = id
	return true
}

func (e *EventBase) OccurredAt() time.Time {
	return e.EventDate
}
