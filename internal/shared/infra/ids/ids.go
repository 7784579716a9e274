// Package ids implementa los puertos de identificadores y reloj.
package ids

import (
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/meetups/internal/shared/application/ports"
)

// UUIDv7Generator genera ids ordenables por tiempo.
type UUIDv7Generator struct{}

var _ ports.IDGenerator = UUIDv7Generator{}

func (UUIDv7Generator) NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// sólo falla si no hay entropía
		return uuid.New()
	}
	return id
}

type SystemClock struct{}

var _ ports.Clock = SystemClock{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
