package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

func deadMessage() sharedDomain.OutboxMessage {
	return sharedDomain.OutboxMessage{
		MessageID:     uuid.New(),
		AggregateType: "meetup",
		AggregateID:   uuid.NewString(),
		EventType:     "MeetupCreated",
		Payload:       []byte(`{"title":"Go night"}`),
		Attempts:      10,
		CreatedAt:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestFromMongoDeadLetter(t *testing.T) {
	msg := deadMessage()
	doc := mongoDeadLetter{
		MessageID:     msg.MessageID.String(),
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       string(msg.Payload),
		Attempts:      msg.Attempts,
		Reason:        "max attempts reached",
		CreatedAt:     msg.CreatedAt,
	}

	got := fromMongoDeadLetter(doc)

	assert.Equal(t, msg.MessageID, got.MessageID)
	assert.Equal(t, "max attempts reached", got.LastError)
	assert.Equal(t, msg.Payload, got.Payload)
	assert.Equal(t, 10, got.Attempts)
}

// Sólo corre contra un MongoDB real si MONGO_URI está definido.
func TestDeadLetterStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping mongo integration test")
	}

	// ARRANGE
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	dbName := "meetups_test_" + uuid.NewString()[:8]
	t.Cleanup(func() { _ = client.Database(dbName).Drop(context.Background()) })
	store := NewDeadLetterStore(client, dbName)
	msg := deadMessage()

	// ACT
	require.NoError(t, store.StoreDeadLetter(ctx, msg, "broker down"))
	require.NoError(t, store.StoreDeadLetter(ctx, msg, "broker down"))
	listed, err := store.List(ctx, 10)

	// ASSERT
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, msg.MessageID, listed[0].MessageID)
	assert.Equal(t, "broker down", listed[0].LastError)
}
