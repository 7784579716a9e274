package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/meetups/internal/bootstrap"
	httpapi "github.com/davicafu/meetups/internal/meetup/infra/inbound/http"
)

func newServeCmd() *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
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

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return serveHTTP(ctx, a, container) })
			if withWorker {
				// Todo en un proceso: útil en local con el bus en memoria.
				g.Go(func() error { return runWorker(ctx, a, container) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&withWorker, "worker", false, "also run the outbox processor, tasks and consumers in this process")
	return cmd
}

func serveHTTP(ctx context.Context, a *app, container *bootstrap.Container) error {
	if a.cfg.AppEnv != "local" && a.cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	httpapi.RegisterMeetupRoutes(router, httpapi.NewMeetupHandler(container, a.log))
	httpapi.RegisterOpsRoutes(router, prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("🚀 Server running", zap.String("url", "http://localhost:"+a.cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info("🛑 Apagando servidor HTTP")
	return srv.Shutdown(shutdownCtx)
}
