package bootstrap

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/outbox"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
	"github.com/davicafu/meetups/internal/shared/infra/relayer"
	"github.com/davicafu/meetups/tests/mocks"
)

// openPostgres sólo corre si DATABASE_URL apunta a un Postgres de pruebas.
func openPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		t.Skip("DATABASE_URL is not a postgres DSN; skipping integration test")
	}
	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(ctx, db, persistence.DriverPostgres))
	for _, table := range []string{"outbox", "outbox_dead_letters", "reviews", "meetups"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_PipelineAndProcessor(t *testing.T) {
	// ARRANGE
	db := openPostgres(t)
	c, err := NewContainer(db, zap.NewNop())
	require.NoError(t, err)

	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	worker := relayer.NewOutboxWorker(c.Outbox(), publisher, outbox.NewDeadLetterRepo(db),
		relayer.Config{BatchSize: 10, MaxAttempts: 3}, nil, zap.NewNop())

	// ACT
	approvedMeetup(t, c)
	result := worker.ProcessBatch(context.Background())

	// ASSERT
	assert.Equal(t, 2, result.Published)
	assert.Zero(t, count(t, db, "outbox"))
	published := publisher.Calls
	require.Len(t, published, 2)
	assert.Equal(t, domain.MeetupCreatedEvent, published[0].Arguments.Get(1).(sharedDomain.OutboxMessage).EventType)
	assert.Equal(t, domain.MeetupModeratedEvent, published[1].Arguments.Get(1).(sharedDomain.OutboxMessage).EventType)
}
