package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/meetups/internal/bootstrap"
	"github.com/davicafu/meetups/internal/meetup/application"
	inboundEvents "github.com/davicafu/meetups/internal/meetup/infra/inbound/events"
	"github.com/davicafu/meetups/internal/meetup/infra/outbound/analytics/clickhouse"
	"github.com/davicafu/meetups/internal/shared/infra/relayer"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the outbox processor, periodic tasks and event consumers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			container, err := bootstrap.NewContainer(a.db, a.log)
			if err != nil {
				return err
			}
			return runWorker(cmd.Context(), a, container)
		},
	}
}

// runWorker arranca todos los bucles de fondo y bloquea hasta que se cancela ctx
// o alguno falla.
func runWorker(ctx context.Context, a *app, container *bootstrap.Container) error {
	cfg, log := a.cfg, a.log

	transport, err := bootstrap.NewTransport(ctx, cfg, &a.closers, log)
	if err != nil {
		return err
	}
	deadLetters, err := bootstrap.NewDeadLetters(ctx, cfg, a.db, &a.closers, log)
	if err != nil {
		return err
	}

	// ------------ Consumers ---------------
	seen := bootstrap.NewDedupCache(ctx, cfg, &a.closers, log)
	moderation := inboundEvents.NewModerationConsumer(container, seen, cfg.DedupTTL, log)
	runModeration, err := bootstrap.NewModerationSource(cfg, transport, moderation, &a.closers, log)
	if err != nil {
		return err
	}

	var runAnalytics bootstrap.Runner
	if cfg.ClickHouseAddr != "" {
		eventLog, err := clickhouse.NewEventLogRepo(cfg.ClickHouseAddr, cfg.ClickHouseDatabase, log)
		if err != nil {
			return err
		}
		if err := eventLog.InitSchema(ctx); err != nil {
			return err
		}
		runAnalytics, err = bootstrap.NewAnalyticsSource(cfg, transport, eventLog, &a.closers, log)
		if err != nil {
			return err
		}
		log.Info("📊 Registro de eventos en ClickHouse activado", zap.String("addr", cfg.ClickHouseAddr))
	}

	// ------------ Outbox Worker ------------
	worker := relayer.NewOutboxWorker(
		container.Outbox(),
		transport.Publisher,
		deadLetters,
		relayer.Config{
			Interval:    cfg.OutboxPeriod,
			BatchSize:   cfg.OutboxLimit,
			MaxAttempts: cfg.OutboxMaxAttempts,
		},
		relayer.NewMetrics(prometheus.DefaultRegisterer),
		log,
	)

	// ---------------- Tasks ----------------
	tasks := []*application.PeriodicTask{
		application.NewStatusSyncTask(container, cfg.StatusSyncPeriod, log),
		application.NewCleanupTask(container, cfg.CleanupPeriod, cfg.MeetupRetention, log),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Start(ctx)
		return nil
	})
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task.Start(ctx) })
	}
	for _, run := range []bootstrap.Runner{runModeration, runAnalytics} {
		if run != nil {
			run := run
			g.Go(func() error { return run(ctx) })
		}
	}
	return g.Wait()
}
