package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// RabbitMQConsumerConfig describe de dónde se consume.
type RabbitMQConsumerConfig struct {
	Exchange    string
	Queue       string
	RoutingKeys []string
	Prefetch    int
}

// RabbitMQConsumer declara la cola, la enlaza al exchange y entrega cada entrega al handler.
// Ack si el handler devuelve nil; si no, nack con reencolado.
type RabbitMQConsumer struct {
	ch      *amqp.Channel
	cfg     RabbitMQConsumerConfig
	handler sharedBus.MessageHandler
	log     *zap.Logger
}

func NewRabbitMQConsumer(ch *amqp.Channel, cfg RabbitMQConsumerConfig, handler sharedBus.MessageHandler, log *zap.Logger) *RabbitMQConsumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	return &RabbitMQConsumer{ch: ch, cfg: cfg, handler: handler, log: log}
}

func (c *RabbitMQConsumer) setup() (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	if err := c.ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	q, err := c.ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	for _, key := range c.cfg.RoutingKeys {
		if err := c.ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue %s to %s: %w", q.Name, key, err)
		}
	}
	return c.ch.Consume(q.Name, "", false, false, false, false, nil)
}

// Start consume hasta que se cancela ctx o se cierra el canal. Bloquea.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	deliveries, err := c.setup()
	if err != nil {
		return err
	}
	c.log.Info("🎧 Iniciando consumidor de RabbitMQ...",
		zap.String("exchange", c.cfg.Exchange),
		zap.String("queue", c.cfg.Queue),
		zap.Strings("routing_keys", c.cfg.RoutingKeys),
	)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Consumidor de RabbitMQ detenido.", zap.String("queue", c.cfg.Queue))
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq deliveries closed for %s", c.cfg.Queue)
			}
			key := d.MessageId
			if key == "" {
				key = d.RoutingKey
			}
			if err := c.handler.HandleMessage(ctx, key, d.Body); err != nil {
				c.log.Warn("Mensaje de RabbitMQ no procesado", zap.String("message_id", d.MessageId), zap.Error(err))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
