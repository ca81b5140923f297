package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost", MigrationOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string", MigrationOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("down-without-steps", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "postgres://localhost", MigrationOptions{Direction: "down"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "positive number of steps")
	})

	t.Run("unknown-direction", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "postgres://localhost", MigrationOptions{Direction: "sideways"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid migration direction")
	})
}

func TestMigrationOptions_Validate(t *testing.T) {
	opts := MigrationOptions{}
	require.NoError(t, opts.validate())
	assert.Equal(t, "up", opts.Direction)

	opts = MigrationOptions{Direction: "up", Steps: -1}
	assert.Error(t, opts.validate())

	opts = MigrationOptions{Direction: "down", Steps: 1}
	assert.NoError(t, opts.validate())
}

func TestMigrationsPath(t *testing.T) {
	assert.Equal(t, "file://migrations/mysql", migrationsPath("mysql"))
	assert.Equal(t, "file://migrations/postgresql", migrationsPath("postgres"))
}
