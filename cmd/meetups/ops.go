package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/bootstrap"
	"github.com/davicafu/meetups/internal/meetup/infra/outbound/analytics/clickhouse"
	"github.com/davicafu/meetups/internal/shared/infra/relayer"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// setup ya migra; el comando existe para hacerlo sin arrancar nada más.
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			a.log.Info("✅ Migraciones aplicadas")
			return nil
		},
	}
}

func newOutboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Outbox operations",
	}
	cmd.AddCommand(newOutboxProcessCmd(), newOutboxDeadLettersCmd())
	return cmd
}

func newOutboxProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Run a single outbox batch and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			container, err := bootstrap.NewContainer(a.db, a.log)
			if err != nil {
				return err
			}
			transport, err := bootstrap.NewTransport(ctx, a.cfg, &a.closers, a.log)
			if err != nil {
				return err
			}
			deadLetters, err := bootstrap.NewDeadLetters(ctx, a.cfg, a.db, &a.closers, a.log)
			if err != nil {
				return err
			}

			worker := relayer.NewOutboxWorker(container.Outbox(), transport.Publisher, deadLetters, relayer.Config{
				BatchSize:   a.cfg.OutboxLimit,
				MaxAttempts: a.cfg.OutboxMaxAttempts,
			}, relayer.NewMetrics(prometheus.NewRegistry()), a.log)

			result := worker.ProcessBatch(ctx)
			a.log.Info("📦 Pasada de outbox terminada",
				zap.Int("fetched", result.Fetched),
				zap.Int("published", result.Published),
				zap.Int("failed", result.Failed),
				zap.Int("dead_lettered", result.DeadLettered),
			)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		},
	}
}

func newOutboxDeadLettersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List the most recent dead-lettered messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			deadLetters, err := bootstrap.NewDeadLetters(ctx, a.cfg, a.db, &a.closers, a.log)
			if err != nil {
				return err
			}
			messages, err := deadLetters.List(ctx, limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(messages)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of messages")
	return cmd
}

func newAnalyticsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Daily event counts from the ClickHouse event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.cfg.ClickHouseAddr == "" {
				return errors.New("CLICKHOUSE_ADDR is not set")
			}

			eventLog, err := clickhouse.NewEventLogRepo(a.cfg.ClickHouseAddr, a.cfg.ClickHouseDatabase, a.log)
			if err != nil {
				return err
			}
			end := time.Now().UTC()
			counts, err := eventLog.DailyCounts(ctx, end.AddDate(0, 0, -days), end)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(counts)
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "how many days back to count")
	return cmd
}
