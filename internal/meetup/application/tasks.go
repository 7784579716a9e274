package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
)

// PeriodicTask envía una petición cada Period como actor de sistema.
type PeriodicTask struct {
	Name    string
	Period  time.Duration
	Request func() mediator.Request
	sender  mediator.Sender
	log     *zap.Logger
}

func NewStatusSyncTask(sender mediator.Sender, period time.Duration, log *zap.Logger) *PeriodicTask {
	return &PeriodicTask{
		Name:    "status-sync",
		Period:  period,
		Request: func() mediator.Request { return SyncMeetupStatuses{} },
		sender:  sender,
		log:     log,
	}
}

func NewCleanupTask(sender mediator.Sender, period, retention time.Duration, log *zap.Logger) *PeriodicTask {
	return &PeriodicTask{
		Name:    "cleanup",
		Period:  period,
		Request: func() mediator.Request { return CleanupMeetups{Retention: retention} },
		sender:  sender,
		log:     log,
	}
}

// RunOnce ejecuta una pasada.
func (t *PeriodicTask) RunOnce(ctx context.Context) error {
	ctx = identity.WithActor(ctx, identity.System)
	_, err := t.sender.Send(ctx, t.Request())
	return err
}

// Start bloquea hasta que se cancela el context. Un fallo se registra y se reintenta en el siguiente tick.
func (t *PeriodicTask) Start(ctx context.Context) error {
	ticker := time.NewTicker(t.Period)
	defer ticker.Stop()

	t.log.Info("⏱️ Tarea periódica iniciada", zap.String("task", t.Name), zap.Duration("period", t.Period))
	for {
		select {
		case <-ctx.Done():
			t.log.Info("🛑 Tarea periódica detenida", zap.String("task", t.Name))
			return nil
		case <-ticker.C:
			if err := t.RunOnce(ctx); err != nil {
				t.log.Error("❌ Tarea periódica fallida", zap.String("task", t.Name), zap.Error(err))
			}
		}
	}
}
