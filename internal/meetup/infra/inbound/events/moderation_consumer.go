package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/application"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/platform/bus"
	"github.com/davicafu/meetups/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/meetups/internal/shared/infra/utils"
)

type ContentType string

const (
	ContentMeetup ContentType = "meetup"
	ContentReview ContentType = "review"
)

type ContentRef struct {
	ContentType ContentType `json:"content_type"`
	ContentID   uuid.UUID   `json:"content_id"`
	// MeetupID sólo viene en las reseñas.
	MeetupID uuid.UUID `json:"meetup_id,omitempty"`
}

// ModerationDecisionProvided es el mensaje que publica el servicio de moderación.
type ModerationDecisionProvided struct {
	TaskID     uuid.UUID                     `json:"task_id"`
	Decision   sharedDomain.ModerationStatus `json:"decision"`
	ContentRef ContentRef                    `json:"content_ref"`
}

// ModerationConsumer convierte decisiones de moderación en comandos. Es idempotente por task_id.
type ModerationConsumer struct {
	sender  mediator.Sender
	seen    cache.Cache
	ttlSecs int
	log     *zap.Logger
}

func NewModerationConsumer(sender mediator.Sender, seen cache.Cache, ttl time.Duration, log *zap.Logger) *ModerationConsumer {
	return &ModerationConsumer{sender: sender, seen: seen, ttlSecs: int(ttl.Seconds()), log: log}
}

var _ bus.MessageHandler = (*ModerationConsumer)(nil)

func dedupKey(taskID uuid.UUID) string {
	return "moderation:task:" + taskID.String()
}

// HandleMessage devuelve error sólo cuando reintentar tiene sentido; los mensajes
// que nunca se podrán aplicar se registran y se descartan.
func (c *ModerationConsumer) HandleMessage(ctx context.Context, key string, payload []byte) error {
	err := sharedUtils.UnmarshalAndHandle(payload, func(msg ModerationDecisionProvided) error {
		return c.handle(ctx, msg)
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, errPoison),
		errors.Is(err, sharedUtils.ErrMalformedPayload),
		errors.Is(err, sharedDomain.ErrInvalidInput),
		errors.Is(err, sharedDomain.ErrNotFound):
		c.log.Warn("⚠️ Decisión de moderación descartada", zap.String("key", key), zap.Error(err))
		return nil
	default:
		return err
	}
}

var errPoison = errors.New("malformed moderation decision")

func (c *ModerationConsumer) handle(ctx context.Context, msg ModerationDecisionProvided) error {
	if msg.TaskID == uuid.Nil || !msg.Decision.Valid() || msg.ContentRef.ContentID == uuid.Nil {
		return fmt.Errorf("%w: %+v", errPoison, msg)
	}

	var done bool
	if hit, err := c.seen.Get(ctx, dedupKey(msg.TaskID), &done); err != nil {
		c.log.Warn("⚠️ Caché de deduplicación no disponible", zap.Error(err))
	} else if hit {
		c.log.Info("Decisión de moderación duplicada ignorada", zap.String("task_id", msg.TaskID.String()))
		return nil
	}

	var req mediator.Request
	switch msg.ContentRef.ContentType {
	case ContentMeetup:
		req = application.ModerateMeetup{MeetupID: msg.ContentRef.ContentID, Status: msg.Decision}
	case ContentReview:
		if msg.ContentRef.MeetupID == uuid.Nil {
			return fmt.Errorf("%w: review without meetup_id", errPoison)
		}
		req = application.ModerateReview{MeetupID: msg.ContentRef.MeetupID, ReviewID: msg.ContentRef.ContentID, Status: msg.Decision}
	default:
		return fmt.Errorf("%w: unknown content type %q", errPoison, msg.ContentRef.ContentType)
	}

	if _, err := c.sender.Send(identity.WithActor(ctx, identity.System), req); err != nil {
		return err
	}

	if err := c.seen.Set(ctx, dedupKey(msg.TaskID), true, c.ttlSecs); err != nil {
		c.log.Warn("⚠️ No se pudo marcar la decisión como procesada", zap.String("task_id", msg.TaskID.String()), zap.Error(err))
	}
	c.log.Info("✅ Decisión de moderación aplicada",
		zap.String("task_id", msg.TaskID.String()),
		zap.String("content_type", string(msg.ContentRef.ContentType)),
		zap.String("content_id", msg.ContentRef.ContentID.String()),
		zap.String("decision", string(msg.Decision)),
	)
	return nil
}
