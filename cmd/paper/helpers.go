package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/config"
	"github.com/joshsymonds/paper-trail/internal/service"
	"github.com/joshsymonds/paper-trail/internal/source"
	"github.com/joshsymonds/paper-trail/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/paper/paper.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newSource builds a document source from its configured name.
func newSource(name, path string) (service.DocumentSource, error) {
	switch name {
	case "directory":
		if path == "" {
			path = config.ExpandPath(viper.GetString("scan.path"))
		}
		if path == "" {
			return nil, common.NewUserError("directory source requires --path or scan.path in config", common.ErrMissingConfig)
		}
		return source.NewDirectory(path), nil
	case "simulated":
		return source.NewSimulated(), nil
	}
	return nil, fmt.Errorf("%w: %s", common.ErrUnknownSource, name)
}

// parseDateRange resolves --from/--to flags, defaulting to the last 30 days.
func parseDateRange(fromFlag, toFlag string) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if fromFlag != "" {
		parsed, err := time.Parse("2006-01-02", fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", fromFlag, err)
		}
		start = parsed
	}
	if toFlag != "" {
		parsed, err := time.Parse("2006-01-02", toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", toFlag, err)
		}
		// Include the whole end day
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to date is before --from date")
	}

	return start, end, nil
}

// formatAmount renders an optional amount for display, or a dash when absent.
func formatAmount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// formatDate renders an optional date for display, or a dash when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
