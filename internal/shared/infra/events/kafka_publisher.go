package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	sharedEvents "github.com/davicafu/meetups/internal/shared/events"
	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// KafkaWriter es la parte de kafka.Writer que usamos.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica mensajes de outbox en un topic. La clave es el id del agregado,
// así los eventos de un mismo agregado mantienen su orden dentro de la partición.
type KafkaPublisher struct {
	writer KafkaWriter
	log    *zap.Logger
}

func NewKafkaPublisher(writer KafkaWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg sharedDomain.OutboxMessage) error {
	data, err := sharedEvents.Encode(msg)
	if err != nil {
		return err
	}

	km := kafka.Message{
		Key:   []byte(msg.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(msg.MessageID.String())},
			{Key: "event_type", Value: []byte(msg.EventType)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, km); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("message_id", msg.MessageID.String()), zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully",
		zap.String("message_id", msg.MessageID.String()),
		zap.String("event_type", msg.EventType),
	)
	return nil
}

// Verificación estática
var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)
