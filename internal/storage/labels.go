package storage

import (
	"context"
	"fmt"

	"github.com/joshsymonds/paper-trail/internal/common"
)

// GetLabels returns the label vocabulary in insertion order.
func (s *SQLiteStorage) GetLabels(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM labels ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	for rows.Next() {
		var name string
		if scanErr := rows.Scan(&name); scanErr != nil {
			return nil, fmt.Errorf("failed to scan label: %w", scanErr)
		}
		labels = append(labels, name)
	}
	return labels, rows.Err()
}

// AddLabel adds a label to the vocabulary, idempotently.
func (s *SQLiteStorage) AddLabel(ctx context.Context, label string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(label, "label"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO labels (name) VALUES (?)", label); err != nil {
		return fmt.Errorf("failed to add label: %w", err)
	}
	return nil
}

// DeleteLabel removes a label from the vocabulary. Records already carrying
// the label keep it.
func (s *SQLiteStorage) DeleteLabel(ctx context.Context, label string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(label, "label"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM labels WHERE name = ?", label)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("label %s: %w", label, common.ErrNotFound)
	}
	return nil
}
