package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
)

type noteAdded struct {
	sharedDomain.EventBase
	NoteID uuid.UUID `json:"note_id"`
	Text   string    `json:"text"`
}

func (*noteAdded) EventType() string { return "NoteAdded" }
func (e *noteAdded) AggregateIdentity() sharedDomain.Identity {
	return sharedDomain.Identity{Kind: "note", ID: e.NoteID}
}

type pingNotification struct{}

func (pingNotification) EventType() string { return "Ping" }

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(ctx, db, persistence.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

func newEvent(text string) *noteAdded {
	evt := &noteAdded{
		EventBase: sharedDomain.NewEventBase(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		NoteID:    uuid.New(),
		Text:      text,
	}
	evt.AssignID(uuid.New())
	return evt
}

func TestNewMessage(t *testing.T) {
	evt := newEvent("hola")

	msg, err := NewMessage(evt)

	require.NoError(t, err)
	assert.Equal(t, evt.EventID(), msg.MessageID)
	assert.Equal(t, "note", msg.AggregateType)
	assert.Equal(t, evt.NoteID.String(), msg.AggregateID)
	assert.Equal(t, "NoteAdded", msg.EventType)
	assert.Contains(t, string(msg.Payload), `"text":"hola"`)
	assert.Contains(t, string(msg.Payload), evt.EventID().String())
}

func TestNewMessage_RequiresEventID(t *testing.T) {
	evt := &noteAdded{EventBase: sharedDomain.NewEventBase(time.Now()), NoteID: uuid.New()}

	_, err := NewMessage(evt)

	assert.ErrorIs(t, err, ErrEventWithoutID)
}

func TestOutboxRepo_StoreFetchAckNack(t *testing.T) {
	// ARRANGE
	db := openDB(t)
	repo := NewOutboxRepo(db)
	ctx := context.Background()
	first, err := NewMessage(newEvent("uno"))
	require.NoError(t, err)
	second, err := NewMessage(newEvent("dos"))
	require.NoError(t, err)

	// ACT
	require.NoError(t, repo.Store(ctx, db, first))
	require.NoError(t, repo.Store(ctx, db, second))
	require.NoError(t, repo.NackOutbox(ctx, first.MessageID, "broker down"))
	pending, err := repo.FetchPendingOutbox(ctx, 10)

	// ASSERT
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.MessageID, pending[0].MessageID)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)
	assert.Equal(t, second.MessageID, pending[1].MessageID)
	assert.JSONEq(t, string(second.Payload), string(pending[1].Payload))

	require.NoError(t, repo.AckOutbox(ctx, first.MessageID))
	n, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = repo.AckOutbox(ctx, first.MessageID)
	assert.ErrorIs(t, err, ErrOutboxNotFound)
}

func TestOutboxRepo_StoreInsideRolledBackTx(t *testing.T) {
	db := openDB(t)
	repo := NewOutboxRepo(db)
	ctx := context.Background()
	msg, err := NewMessage(newEvent("perdido"))
	require.NoError(t, err)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Store(ctx, tx, msg))
	require.NoError(t, tx.Rollback())

	n, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeadLetterRepo_StoreIsIdempotentAndListed(t *testing.T) {
	// ARRANGE
	db := openDB(t)
	dead := NewDeadLetterRepo(db)
	ctx := context.Background()
	msg, err := NewMessage(newEvent("muerto"))
	require.NoError(t, err)
	msg.Attempts = 5

	// ACT
	require.NoError(t, dead.StoreDeadLetter(ctx, msg, "max attempts reached"))
	require.NoError(t, dead.StoreDeadLetter(ctx, msg, "max attempts reached"))
	listed, err := dead.List(ctx, 10)

	// ASSERT
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, msg.MessageID, listed[0].MessageID)
	assert.Equal(t, 5, listed[0].Attempts)
	assert.Equal(t, "max attempts reached", listed[0].LastError)
}

type recordingWriter struct {
	stored []sharedDomain.OutboxMessage
	err    error
}

func (w *recordingWriter) Store(_ context.Context, _ sqlx.ExtContext, msg sharedDomain.OutboxMessage) error {
	if w.err != nil {
		return w.err
	}
	w.stored = append(w.stored, msg)
	return nil
}

func TestStoringHandler(t *testing.T) {
	t.Run("stores domain events", func(t *testing.T) {
		writer := &recordingWriter{}
		handler := NewStoringHandler(writer, nil)
		evt := newEvent("guardado")

		err := handler.Handle(context.Background(), evt)

		require.NoError(t, err)
		require.Len(t, writer.stored, 1)
		assert.Equal(t, evt.EventID(), writer.stored[0].MessageID)
	})

	t.Run("rejects plain notifications", func(t *testing.T) {
		handler := NewStoringHandler(&recordingWriter{}, nil)

		err := handler.Handle(context.Background(), pingNotification{})

		assert.ErrorIs(t, err, ErrNotADomainEvent)
	})

	t.Run("propagates writer errors", func(t *testing.T) {
		boom := errors.New("disk full")
		handler := NewStoringHandler(&recordingWriter{err: boom}, nil)

		err := handler.Handle(context.Background(), newEvent("x"))

		assert.ErrorIs(t, err, boom)
	})
}
