package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/bootstrap"
	"github.com/davicafu/meetups/internal/config"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
	"github.com/davicafu/meetups/pkg/logger"
)

// app es lo que comparten todos los subcomandos.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *sqlx.DB
	closers bootstrap.Closers
}

func (a *app) Close() {
	a.closers.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}

// setup carga la configuración, el logger y la base de datos, y aplica las migraciones.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Logger()

	db, err := persistence.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := persistence.Migrate(ctx, db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("✅ Base de datos lista", zap.String("driver", cfg.DBDriver))
	return &app{cfg: cfg, log: log, db: db}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meetups",
		Short:         "Meetups and reviews service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newMigrateCmd(),
		newOutboxCmd(),
		newAnalyticsCmd(),
	)
	return root
}

// ---------------- Main ----------------
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
