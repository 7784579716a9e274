package relayer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/outbox"
	sharedBus "github.com/davicafu/meetups/internal/shared/infra/platform/bus"
)

// Config del procesador. MaxAttempts <= 0 desactiva el dead letter (reintento indefinido).
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// BatchResult resume una pasada.
type BatchResult struct {
	Fetched      int
	Published    int
	Failed       int
	DeadLettered int
}

// Worker lee la outbox periódicamente, publica cada fila y la borra sólo si el transporte confirmó.
type Worker struct {
	repo        sharedDomain.OutboxRepository
	publisher   sharedBus.EventPublisher
	deadLetters sharedDomain.DeadLetterStore
	cfg         Config
	metrics     *Metrics
	log         *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventPublisher,
	deadLetters sharedDomain.DeadLetterStore,
	cfg Config,
	metrics *Metrics,
	log *zap.Logger,
) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Worker{
		repo:        repo,
		publisher:   publisher,
		deadLetters: deadLetters,
		cfg:         cfg,
		metrics:     metrics,
		log:         log,
	}
}

// Start inicia el bucle de polling del worker. Bloquea hasta que se cancela ctx.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado",
		zap.Duration("interval", w.cfg.Interval),
		zap.Int("batch_size", w.cfg.BatchSize),
		zap.Int("max_attempts", w.cfg.MaxAttempts),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido.")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch procesa una página de la outbox. Cada fila se publica como mucho una vez por pasada.
func (w *Worker) ProcessBatch(ctx context.Context) BatchResult {
	var result BatchResult

	messages, err := w.repo.FetchPendingOutbox(ctx, w.cfg.BatchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener mensajes pendientes", zap.Error(err))
		return result
	}
	result.Fetched = len(messages)
	if len(messages) > 0 {
		w.log.Info(fmt.Sprintf("📬 %d mensajes encontrados para procesar", len(messages)))
	}

	seen := make(map[string]struct{}, len(messages))
batch:
	for _, msg := range messages {
		if ctx.Err() != nil {
			break
		}
		key := msg.MessageID.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		switch w.publishAndAck(ctx, msg) {
		case outcomePublished:
			result.Published++
		case outcomeFailed:
			// La fila sigue pendiente: publicar las siguientes rompería el orden de entrega.
			result.Failed++
			w.log.Info("⏸️ Pasada detenida tras un fallo; se reanuda en la siguiente",
				zap.String("message_id", key))
			break batch
		case outcomeDead:
			result.Failed++
			result.DeadLettered++
		}
	}

	if pending, err := w.repo.CountPending(ctx); err == nil {
		w.metrics.pending.Set(float64(pending))
	}
	return result
}

type outcome int

const (
	outcomePublished outcome = iota
	outcomeFailed
	outcomeDead
)

func (w *Worker) publishAndAck(ctx context.Context, msg sharedDomain.OutboxMessage) outcome {
	log := w.log.With(
		zap.String("message_id", msg.MessageID.String()),
		zap.String("event_type", msg.EventType),
	)

	// 1. Publicar. Nunca se borra antes de que el transporte confirme.
	if err := w.publisher.Publish(ctx, msg); err != nil {
		err = fmt.Errorf("%w: %w", outbox.ErrPublishFailure, err)
		w.metrics.failed.Inc()
		return w.handleFailure(ctx, msg, err, log)
	}
	w.metrics.published.Inc()

	// 2. Borrar la fila. Si falla se volverá a publicar en otra pasada; el consumidor deduplica.
	if err := w.repo.AckOutbox(ctx, msg.MessageID); err != nil {
		log.Warn("⚠️ Mensaje publicado pero no se pudo borrar de la outbox", zap.Error(err))
		return outcomePublished
	}
	log.Info("✅ Mensaje publicado y borrado")
	return outcomePublished
}

func (w *Worker) handleFailure(ctx context.Context, msg sharedDomain.OutboxMessage, cause error, log *zap.Logger) outcome {
	attempts := msg.Attempts + 1
	if w.cfg.MaxAttempts <= 0 || attempts < w.cfg.MaxAttempts || w.deadLetters == nil {
		log.Warn("⚠️ No se pudo publicar el mensaje, se reintentará",
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
		if err := w.repo.NackOutbox(ctx, msg.MessageID, cause.Error()); err != nil {
			log.Warn("⚠️ No se pudo registrar el intento fallido", zap.Error(err))
		}
		return outcomeFailed
	}

	msg.Attempts = attempts
	if err := w.deadLetters.StoreDeadLetter(ctx, msg, cause.Error()); err != nil {
		log.Error("❌ No se pudo mover el mensaje al dead letter", zap.Error(err))
		if err := w.repo.NackOutbox(ctx, msg.MessageID, cause.Error()); err != nil {
			log.Warn("⚠️ No se pudo registrar el intento fallido", zap.Error(err))
		}
		return outcomeFailed
	}
	if err := w.repo.AckOutbox(ctx, msg.MessageID); err != nil {
		log.Warn("⚠️ Mensaje en dead letter pero no se pudo borrar de la outbox", zap.Error(err))
	}
	w.metrics.dead.Inc()
	log.Error("💀 Mensaje movido al dead letter tras agotar intentos",
		zap.Int("attempts", attempts),
		zap.Error(cause),
	)
	return outcomeDead
}
