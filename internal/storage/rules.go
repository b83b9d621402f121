package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/joshsymonds/paper-trail/internal/common"
	"github.com/joshsymonds/paper-trail/internal/model"
)

const ruleColumns = `id, name, conditions, actions, logic, is_active, position, created_at, updated_at`

// CreateRule persists a new rule at the end of the evaluation order,
// assigning an id if the caller did not supply one.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.Logic = model.ParseLogicMode(string(rule.Logic))

	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}

	query := `
		INSERT INTO rules (id, name, conditions, actions, logic, is_active, position)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM rules))
	`
	_, err = s.db.ExecContext(ctx, query,
		rule.ID, rule.Name, string(conditionsJSON), string(actionsJSON),
		string(rule.Logic), rule.IsActive)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("rule %s: %w", rule.ID, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// GetRule retrieves a rule by id.
func (s *SQLiteStorage) GetRule(ctx context.Context, id string) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM rules WHERE id = ?", ruleColumns), id)

	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// ListRules returns all rules in evaluation order.
func (s *SQLiteStorage) ListRules(ctx context.Context) ([]model.Rule, error) {
	return s.listRules(ctx, false)
}

// ListActiveRules returns only active rules, in evaluation order.
func (s *SQLiteStorage) ListActiveRules(ctx context.Context) ([]model.Rule, error) {
	return s.listRules(ctx, true)
}

func (s *SQLiteStorage) listRules(ctx context.Context, activeOnly bool) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM rules", ruleColumns)
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY position, created_at"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ruleset []model.Rule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", scanErr)
		}
		ruleset = append(ruleset, *rule)
	}
	return ruleset, rows.Err()
}

// DeleteRule removes a rule permanently.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// SetRuleActive toggles whether a rule participates in evaluation.
func (s *SQLiteStorage) SetRuleActive(ctx context.Context, id string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE rules SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		active, id)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanRule(row rowScanner) (*model.Rule, error) {
	var (
		rule           model.Rule
		conditionsJSON string
		actionsJSON    string
		logic          string
		position       int
	)

	err := row.Scan(&rule.ID, &rule.Name, &conditionsJSON, &actionsJSON,
		&logic, &rule.IsActive, &position, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(conditionsJSON), &rule.Conditions); err != nil {
		return nil, fmt.Errorf("invalid conditions payload: %w", err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &rule.Actions); err != nil {
		return nil, fmt.Errorf("invalid actions payload: %w", err)
	}
	rule.Logic = model.ParseLogicMode(logic)

	return &rule, nil
}
