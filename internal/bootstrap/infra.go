package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/config"
	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/events"
	"github.com/davicafu/meetups/internal/shared/infra/outbox"
	"github.com/davicafu/meetups/internal/shared/infra/outbox/mongodb"
	"github.com/davicafu/meetups/internal/shared/infra/platform/bus"
	"github.com/davicafu/meetups/internal/shared/infra/platform/cache"
	"github.com/davicafu/meetups/internal/shared/infra/utils"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Closers acumula lo que hay que cerrar al salir, en orden inverso.
type Closers []func()

func (c *Closers) Add(fn func()) { *c = append(*c, fn) }

func (c Closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// Transport es el destino de la outbox.
type Transport struct {
	Publisher bus.EventPublisher
	// Memory sólo existe con OUTBOX_TRANSPORT=memory; los consumidores locales se suscriben a él.
	Memory *events.InMemoryEventBus
	// AMQP es la conexión compartida por publisher y consumidores con OUTBOX_TRANSPORT=rabbitmq.
	AMQP *amqp.Connection
}

func NewTransport(ctx context.Context, cfg *config.Config, closers *Closers, log *zap.Logger) (*Transport, error) {
	switch cfg.OutboxTransport {
	case "kafka":
		log.Info("🚀 Usando Kafka como transporte de la outbox", zap.Strings("brokers", cfg.KafkaBrokers))
		writer := &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		}
		closers.Add(func() { _ = writer.Close() })
		return &Transport{Publisher: events.NewKafkaPublisher(writer, log)}, nil

	case "rabbitmq":
		log.Info("🐇 Usando RabbitMQ como transporte de la outbox", zap.String("exchange", cfg.RabbitMQExchange))
		conn, err := DialAMQP(ctx, cfg.RabbitMQURI, closers, log)
		if err != nil {
			return nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open amqp channel: %w", err)
		}
		closers.Add(func() { _ = ch.Close() })

		pub, err := events.NewRabbitMQPublisher(ch, events.RabbitMQConfig{
			Exchange: cfg.RabbitMQExchange,
			Queue:    cfg.RabbitMQQueue,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := pub.DeclareTopology(domain.EventTypes()...); err != nil {
			return nil, err
		}
		return &Transport{Publisher: pub, AMQP: conn}, nil

	default:
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		memBus := events.NewInMemoryEventBus(cfg.KafkaTopic)
		return &Transport{Publisher: memBus, Memory: memBus}, nil
	}
}

// DialAMQP conecta con reintentos: el broker suele arrancar después que el servicio.
func DialAMQP(ctx context.Context, uri string, closers *Closers, log *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	err := utils.Retry(ctx, connectAttempts, connectDelay, func() error {
		var err error
		conn, err = amqp.Dial(uri)
		if err != nil {
			log.Warn("⚠️ RabbitMQ no disponible, reintentando", zap.Error(err))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	closers.Add(func() { _ = conn.Close() })
	return conn, nil
}

// DeadLetters es el almacén de mensajes muertos que además se puede listar.
type DeadLetters interface {
	sharedDomain.DeadLetterStore
	List(ctx context.Context, limit int) ([]sharedDomain.OutboxMessage, error)
}

var (
	_ DeadLetters = (*outbox.DeadLetterRepo)(nil)
	_ DeadLetters = (*mongodb.DeadLetterStore)(nil)
)

func NewDeadLetters(ctx context.Context, cfg *config.Config, db *sqlx.DB, closers *Closers, log *zap.Logger) (DeadLetters, error) {
	if cfg.DeadLetterStore != "mongo" {
		return outbox.NewDeadLetterRepo(db), nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	closers.Add(func() { _ = client.Disconnect(context.Background()) })

	err = utils.Retry(ctx, connectAttempts, connectDelay, func() error {
		return client.Ping(ctx, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("✅ MongoDB conectado, dead letters en Mongo", zap.String("database", cfg.MongoDatabase))
	return mongodb.NewDeadLetterStore(client, cfg.MongoDatabase), nil
}

// NewDedupCache usa Redis si está configurado y responde; si no, una caché en memoria.
func NewDedupCache(ctx context.Context, cfg *config.Config, closers *Closers, log *zap.Logger) cache.Cache {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		err := rdb.Ping(ctx).Err()
		if err == nil {
			closers.Add(func() { _ = rdb.Close() })
			log.Info("✅ Redis conectado, deduplicación compartida")
			return cache.NewRedisCache(rdb, cfg.DedupTTL, "meetups:")
		}
		log.Warn("⚠️ Redis no disponible, caché en memoria", zap.Error(err))
		_ = rdb.Close()
	}
	mem := cache.NewInMemoryCache(cfg.DedupTTL, cfg.DedupTTL/4+time.Minute)
	closers.Add(mem.Stop)
	return mem
}

// Runner es un bucle bloqueante que termina al cancelar ctx.
type Runner func(ctx context.Context) error

// NewModerationSource conecta el consumidor de decisiones de moderación con el broker configurado.
// Con el bus en memoria no hay fuente externa y devuelve nil.
func NewModerationSource(cfg *config.Config, transport *Transport, handler bus.MessageHandler, closers *Closers, log *zap.Logger) (Runner, error) {
	switch {
	case transport.AMQP != nil:
		ch, err := transport.AMQP.Channel()
		if err != nil {
			return nil, fmt.Errorf("open amqp channel: %w", err)
		}
		closers.Add(func() { _ = ch.Close() })
		consumer := events.NewRabbitMQConsumer(ch, events.RabbitMQConsumerConfig{
			Exchange:    cfg.ModerationExchange,
			Queue:       cfg.ModerationQueue,
			RoutingKeys: []string{cfg.ModerationRoutingKey},
		}, handler, log)
		return consumer.Start, nil

	case cfg.OutboxTransport == "kafka":
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaModerationTopic,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})
		closers.Add(func() { _ = reader.Close() })
		return events.NewConsumerAdapter(reader, handler, log).Start, nil
	}

	log.Info("ℹ️ Sin broker externo: el consumidor de moderación no se inicia")
	return nil, nil
}

// NewAnalyticsSource entrega cada evento publicado al handler de analítica.
func NewAnalyticsSource(cfg *config.Config, transport *Transport, handler bus.MessageHandler, closers *Closers, log *zap.Logger) (Runner, error) {
	switch {
	case transport.Memory != nil:
		ch := transport.Memory.Subscribe(100)
		return func(ctx context.Context) error {
			events.BackgroundConsumerChan(ctx, ch, handler)
			<-ctx.Done()
			return nil
		}, nil

	case transport.AMQP != nil:
		ch, err := transport.AMQP.Channel()
		if err != nil {
			return nil, fmt.Errorf("open amqp channel: %w", err)
		}
		closers.Add(func() { _ = ch.Close() })
		consumer := events.NewRabbitMQConsumer(ch, analyticsQueueConfig(cfg), handler, log)
		return consumer.Start, nil

	default:
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaGroupID + "-analytics",
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})
		closers.Add(func() { _ = reader.Close() })
		return events.NewConsumerAdapter(reader, handler, log).Start, nil
	}
}

// analyticsQueueConfig da a la analítica su propia cola enlazada con todos los tipos de evento,
// así recibe una copia de cada mensaje sin competir con los consumidores de RABBITMQ_QUEUE.
func analyticsQueueConfig(cfg *config.Config) events.RabbitMQConsumerConfig {
	return events.RabbitMQConsumerConfig{
		Exchange:    cfg.RabbitMQExchange,
		Queue:       cfg.RabbitMQAnalyticsQueue,
		RoutingKeys: domain.EventTypes(),
	}
}
