// Package commands implements the actions behind the quizly CLI subcommands.
package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/quizly/internal/app"
)

const containerCloseTimeout = 10 * time.Second

// Stdout is where command reports are written. Tests pass their own writer.
func Stdout() io.Writer {
	return os.Stdout
}

// CloseContainer releases the container's database, redis and metrics resources,
// logging instead of returning so it can be deferred.
func CloseContainer(container *app.Container, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), containerCloseTimeout)
	defer cancel()

	if err := container.Shutdown(ctx); err != nil {
		logger.Error("failed to close container", slog.Any("error", err))
	}
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := m.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Error("failed to close migrate", slog.Any("error", err))
	}
}
