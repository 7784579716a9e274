package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUUIDv7Generator_IsVersion7AndUnique(t *testing.T) {
	gen := UUIDv7Generator{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		assert.EqualValues(t, 7, id.Version())
		assert.False(t, seen[id.String()])
		seen[id.String()] = true
	}
}

func TestSystemClock_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}
