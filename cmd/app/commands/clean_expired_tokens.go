package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// ExpiredTokenCleaner removes outstanding refresh tokens past their retention window.
type ExpiredTokenCleaner interface {
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// RunCleanExpiredTokens deletes outstanding refresh tokens that expired more than days
// ago. Blacklist entries go with them. With dryRun it only reports how many would be deleted.
func RunCleanExpiredTokens(
	ctx context.Context,
	cleaner ExpiredTokenCleaner,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("cleaning expired tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := cleaner.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	if format == "json" {
		if err := outputCleanExpiredJSON(writer, count, days, dryRun); err != nil {
			return err
		}
	} else {
		outputCleanExpiredText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanExpiredText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired token(s) older than %d day(s)\n", count, days)
		return
	}
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired token(s) older than %d day(s)\n", count, days)
}

func outputCleanExpiredJSON(writer io.Writer, count int64, days int, dryRun bool) error {
	result := map[string]any{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
