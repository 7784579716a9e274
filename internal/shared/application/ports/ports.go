package ports

import (
	"time"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() uuid.UUID
}

type Clock interface {
	Now() time.Time
}
