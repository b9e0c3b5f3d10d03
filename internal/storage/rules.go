package storage

import (
	"context"
	"fmt"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

// GetUserRules returns a tenant's rules ordered by ascending priority, then
// insertion order.
func (s *SQLiteStorage) GetUserRules(ctx context.Context, tenantID string) ([]model.UserRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, match_type, match_value, category, priority, created_at
		FROM user_rules
		WHERE tenant_id = ?
		ORDER BY priority, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.UserRule
	for rows.Next() {
		var rule model.UserRule
		var matchType, category string

		if scanErr := rows.Scan(
			&rule.ID,
			&rule.TenantID,
			&matchType,
			&rule.MatchValue,
			&category,
			&rule.Priority,
			&rule.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan user rule: %w", scanErr)
		}

		rule.MatchType = model.RuleMatchType(matchType)
		rule.Category = model.Category(category)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// SaveUserRule inserts a new rule and sets its id.
func (s *SQLiteStorage) SaveUserRule(ctx context.Context, rule *model.UserRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUserRule(rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO user_rules (tenant_id, match_type, match_value, category, priority)
		VALUES (?, ?, ?, ?, ?)
	`,
		rule.TenantID,
		string(rule.MatchType),
		rule.MatchValue,
		string(rule.Category),
		rule.Priority,
	)
	if err != nil {
		return fmt.Errorf("failed to save user rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user rule id: %w", err)
	}
	rule.ID = id

	return nil
}

// DeleteUserRule removes a tenant's rule by id.
func (s *SQLiteStorage) DeleteUserRule(ctx context.Context, tenantID string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_rules WHERE tenant_id = ? AND id = ?
	`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete user rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user rule %d: %w", id, common.ErrNotFound)
	}

	return nil
}
