package domain

import (
	"context"

	"github.com/google/uuid"
)

// MeetupRepository es el lado de escritura. Add y Delete registran el agregado en la
// unidad de trabajo del scope; Load mantiene un mapa de identidad por scope.
type MeetupRepository interface {
	Add(m *Meetup)
	Delete(m *Meetup)
	Load(ctx context.Context, id uuid.UUID) (*Meetup, error)
}
