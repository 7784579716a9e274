package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// DeadLetterStore guarda en MongoDB los mensajes de outbox que agotaron sus intentos.
type DeadLetterStore struct {
	coll *mongo.Collection
}

func NewDeadLetterStore(client *mongo.Client, dbName string) *DeadLetterStore {
	return &DeadLetterStore{coll: client.Database(dbName).Collection("outbox_dead_letters")}
}

var _ sharedDomain.DeadLetterStore = (*DeadLetterStore)(nil)

// mongoDeadLetter es el documento BSON.
type mongoDeadLetter struct {
	MessageID     string    `bson:"_id"`
	AggregateType string    `bson:"aggregateType"`
	AggregateID   string    `bson:"aggregateId"`
	EventType     string    `bson:"eventType"`
	Payload       string    `bson:"payload"`
	Attempts      int       `bson:"attempts"`
	Reason        string    `bson:"reason"`
	CreatedAt     time.Time `bson:"createdAt"`
	DeadAt        time.Time `bson:"deadAt"`
}

// StoreDeadLetter hace upsert por message_id, así repetirlo no duplica documentos.
func (s *DeadLetterStore) StoreDeadLetter(ctx context.Context, msg sharedDomain.OutboxMessage, reason string) error {
	doc := mongoDeadLetter{
		MessageID:     msg.MessageID.String(),
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       string(msg.Payload),
		Attempts:      msg.Attempts,
		Reason:        reason,
		CreatedAt:     msg.CreatedAt,
		DeadAt:        time.Now().UTC(),
	}

	filter := bson.M{"_id": doc.MessageID}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("store dead letter %s: %w", doc.MessageID, err)
	}
	return nil
}

// List devuelve los mensajes muertos más recientes primero.
func (s *DeadLetterStore) List(ctx context.Context, limit int) ([]sharedDomain.OutboxMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deadAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []sharedDomain.OutboxMessage{}
	for cursor.Next(ctx) {
		var doc mongoDeadLetter
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromMongoDeadLetter(doc))
	}
	return out, cursor.Err()
}

func fromMongoDeadLetter(doc mongoDeadLetter) sharedDomain.OutboxMessage {
	msg := sharedDomain.OutboxMessage{
		AggregateType: doc.AggregateType,
		AggregateID:   doc.AggregateID,
		EventType:     doc.EventType,
		Payload:       []byte(doc.Payload),
		Attempts:      doc.Attempts,
		LastError:     doc.Reason,
		CreatedAt:     doc.CreatedAt,
	}
	_ = msg.MessageID.UnmarshalText([]byte(doc.MessageID))
	return msg
}
