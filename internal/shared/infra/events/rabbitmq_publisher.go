package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	sharedEvents "github.com/davicafu/meetups/internal/shared/events"
	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// AMQPChannel es la parte de *amqp.Channel que usa el publisher.
type AMQPChannel interface {
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
}

// confirmBuffer deja sitio a las confirmaciones que llegan tarde para que amqp091 no se bloquee
// entregándolas mientras no hay ningún Publish leyendo.
const confirmBuffer = 64

// RabbitMQConfig describe la topología de publicación.
type RabbitMQConfig struct {
	Exchange       string
	Queue          string
	ConfirmTimeout time.Duration
}

// RabbitMQPublisher publica en un exchange direct con la routing key igual al tipo de evento.
// Usa confirmaciones del broker: Publish sólo devuelve nil si el broker hizo ack.
type RabbitMQPublisher struct {
	ch       AMQPChannel
	cfg      RabbitMQConfig
	confirms chan amqp.Confirmation
	mu       sync.Mutex // una publicación en vuelo; su confirmación se reconoce por DeliveryTag
	log      *zap.Logger
}

var _ sharedBus.EventPublisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(ch AMQPChannel, cfg RabbitMQConfig, log *zap.Logger) (*RabbitMQPublisher, error) {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 5 * time.Second
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	return &RabbitMQPublisher{ch: ch, cfg: cfg, confirms: confirms, log: log}, nil
}

// DeclareTopology declara el exchange y la cola por defecto y los enlaza con las routing keys dadas.
func (p *RabbitMQPublisher) DeclareTopology(routingKeys ...string) error {
	if err := p.ch.ExchangeDeclare(p.cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}
	if p.cfg.Queue == "" {
		return nil
	}
	if _, err := p.ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.cfg.Queue, err)
	}
	for _, key := range routingKeys {
		if err := p.ch.QueueBind(p.cfg.Queue, key, p.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, p.cfg.Queue, err)
		}
	}
	return nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, msg sharedDomain.OutboxMessage) error {
	body, err := sharedEvents.Encode(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	seq := p.ch.GetNextPublishSeqNo()
	err = p.ch.PublishWithContext(ctx, p.cfg.Exchange, msg.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageID.String(),
		Type:         msg.EventType,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.MessageID, err)
	}
	if err := p.awaitConfirm(ctx, seq); err != nil {
		return fmt.Errorf("%w: %s", err, msg.MessageID)
	}

	p.log.Debug("Event published to RabbitMQ",
		zap.String("message_id", msg.MessageID.String()),
		zap.String("routing_key", msg.EventType),
	)
	return nil
}

// awaitConfirm espera la confirmación con DeliveryTag == seq. Las de publicaciones anteriores
// que vencieron por timeout o cancelación se descartan.
func (p *RabbitMQPublisher) awaitConfirm(ctx context.Context, seq uint64) error {
	timer := time.NewTimer(p.cfg.ConfirmTimeout)
	defer timer.Stop()

	for {
		select {
		case confirm, ok := <-p.confirms:
			if !ok {
				return ErrNotConfirmed
			}
			if confirm.DeliveryTag < seq {
				p.log.Debug("Descartando confirmación atrasada", zap.Uint64("delivery_tag", confirm.DeliveryTag))
				continue
			}
			if confirm.DeliveryTag != seq || !confirm.Ack {
				return ErrNotConfirmed
			}
			return nil
		case <-timer.C:
			return ErrConfirmTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
