package storage

import (
	"context"
	"fmt"

	"github.com/sablefin/sable/internal/model"
)

// GetAccountMappings returns a tenant's category-to-account mappings. At
// most one mapping exists per category.
func (s *SQLiteStorage) GetAccountMappings(ctx context.Context, tenantID string) ([]model.AccountMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, category, account_id, account_name
		FROM account_mappings
		WHERE tenant_id = ?
		ORDER BY category
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.AccountMapping
	for rows.Next() {
		var mapping model.AccountMapping
		var category string

		if scanErr := rows.Scan(
			&mapping.ID,
			&mapping.TenantID,
			&category,
			&mapping.AccountID,
			&mapping.AccountName,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan account mapping: %w", scanErr)
		}

		mapping.Category = model.Category(category)
		mappings = append(mappings, mapping)
	}
	return mappings, rows.Err()
}

// SaveAccountMapping inserts or replaces the mapping for one category.
func (s *SQLiteStorage) SaveAccountMapping(ctx context.Context, mapping *model.AccountMapping) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccountMapping(mapping); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO account_mappings (tenant_id, category, account_id, account_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tenant_id, category) DO UPDATE SET
			account_id = excluded.account_id,
			account_name = excluded.account_name
	`,
		mapping.TenantID,
		string(mapping.Category),
		mapping.AccountID,
		mapping.AccountName,
	)
	if err != nil {
		return fmt.Errorf("failed to save account mapping: %w", err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		mapping.ID = id
	}

	return nil
}
