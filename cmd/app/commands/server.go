package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/quizly/internal/app"
	"github.com/allisson/quizly/internal/config"
)

const shutdownTimeout = 30 * time.Second

// server is what RunServer starts and stops; both the API and metrics servers fit it.
type server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer validates configuration, builds the container and serves the API (plus the
// metrics endpoint when enabled) until SIGINT/SIGTERM or a server failure.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer CloseContainer(container, logger)

	apiServer, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	servers := map[string]server{"api server": apiServer}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers["metrics server"] = metricsServer
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, logger, servers)
}

// serve runs every server until ctx is done or one of them fails, then shuts all of
// them down. It returns the first error from either phase.
func serve(ctx context.Context, logger *slog.Logger, servers map[string]server) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		group.Go(func() error {
			if err := srv.Start(groupCtx); err != nil {
				return fmt.Errorf("%s error: %w", name, err)
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server error, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for name, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("%s shutdown: %w", name, err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return group.Wait()
}
