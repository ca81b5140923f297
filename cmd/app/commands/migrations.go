package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationOptions selects which migrations run.
type MigrationOptions struct {
	// Direction is "up" (default) or "down".
	Direction string
	// Steps limits how many migrations run. Zero applies every pending up migration;
	// down always needs an explicit positive count.
	Steps int
}

// validate normalizes the direction and rejects unsafe combinations.
func (o *MigrationOptions) validate() error {
	if o.Direction == "" {
		o.Direction = "up"
	}
	switch o.Direction {
	case "up":
	case "down":
		if o.Steps <= 0 {
			return fmt.Errorf("down migrations require a positive number of steps")
		}
	default:
		return fmt.Errorf("invalid migration direction: %s (valid options: up, down)", o.Direction)
	}
	if o.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got: %d", o.Steps)
	}
	return nil
}

// migrationsPath maps a database driver onto its migrations directory.
func migrationsPath(driver string) string {
	if driver == "mysql" {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// RunMigrations applies database migrations from the directory matching driver.
// A run with nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string, opts MigrationOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.String("direction", opts.Direction),
		slog.Int("steps", opts.Steps),
	)

	m, err := migrate.New(migrationsPath(driver), connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	switch {
	case opts.Direction == "down":
		err = m.Steps(-opts.Steps)
	case opts.Steps > 0:
		err = m.Steps(opts.Steps)
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
