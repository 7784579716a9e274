package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// ConsumerAdapter es el "oído" que escucha en Kafka.
// Hace commit del offset sólo cuando el handler devuelve nil.
type ConsumerAdapter struct {
	reader  *kafka.Reader
	handler sharedBus.MessageHandler
	log     *zap.Logger
}

func NewConsumerAdapter(reader *kafka.Reader, handler sharedBus.MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{
		reader:  reader,
		handler: handler,
		log:     log,
	}
}

// Start consume mensajes hasta que se cancela ctx. Bloquea.
func (c *ConsumerAdapter) Start(ctx context.Context) error {
	c.log.Info("🎧 Iniciando consumidor de Kafka...",
		zap.String("topic", c.reader.Config().Topic),
		zap.Strings("brokers", c.reader.Config().Brokers),
	)

	for {
		// FetchMessage es una llamada bloqueante.
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Si el contexto se cancela, el error es normal y salimos limpiamente.
			if ctx.Err() != nil {
				c.log.Info("Consumidor de Kafka detenido.", zap.String("topic", c.reader.Config().Topic))
				return nil
			}
			c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
			continue
		}

		if err := c.handler.HandleMessage(ctx, string(msg.Key), msg.Value); err != nil {
			// Se registra y se continúa: reintentar aquí bloquearía la partición.
			c.log.Warn("Mensaje de Kafka no procesado",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Warn("No se pudo hacer commit del offset", zap.Error(err))
		}
	}
}
