package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

// SaveCategorization appends a new categorization row. Existing rows are
// never updated or deleted; the latest created_at wins.
func (s *SQLiteStorage) SaveCategorization(ctx context.Context, c *model.Categorization) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategorization(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var ruleID any
	if c.RuleID != nil {
		ruleID = *c.RuleID
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categorizations (
			tenant_id, transaction_id, category, confidence,
			source, rule_id, reasoning, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.TenantID,
		c.TransactionID,
		string(c.Category),
		c.Confidence,
		string(c.Source),
		ruleID,
		c.Reasoning,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save categorization: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read categorization id: %w", err)
	}
	c.ID = id

	return nil
}

// GetLatestCategorization returns the authoritative categorization for a
// transaction: the row with the latest created_at, breaking ties on the
// higher insert id.
func (s *SQLiteStorage) GetLatestCategorization(ctx context.Context, tenantID, transactionID string) (*model.Categorization, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, transaction_id, category, confidence,
		       source, rule_id, reasoning, created_at
		FROM categorizations
		WHERE tenant_id = ? AND transaction_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, tenantID, transactionID)

	c, err := scanCategorization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("categorization for transaction %s: %w", transactionID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get categorization: %w", err)
	}
	return c, nil
}

// GetCategorizationHistory returns every categorization row ever written for
// a transaction, newest first.
func (s *SQLiteStorage) GetCategorizationHistory(ctx context.Context, tenantID, transactionID string) ([]model.Categorization, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, transaction_id, category, confidence,
		       source, rule_id, reasoning, created_at
		FROM categorizations
		WHERE tenant_id = ? AND transaction_id = ?
		ORDER BY created_at DESC, id DESC
	`, tenantID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categorization history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []model.Categorization
	for rows.Next() {
		c, scanErr := scanCategorization(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan categorization: %w", scanErr)
		}
		history = append(history, *c)
	}
	return history, rows.Err()
}

func scanCategorization(row rowScanner) (*model.Categorization, error) {
	var c model.Categorization
	var category, source string
	var ruleID sql.NullInt64
	var reasoning sql.NullString

	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.TransactionID,
		&category,
		&c.Confidence,
		&source,
		&ruleID,
		&reasoning,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Category = model.Category(category)
	c.Source = model.CategorizationSource(source)
	c.Reasoning = reasoning.String
	if ruleID.Valid {
		id := ruleID.Int64
		c.RuleID = &id
	}

	return &c, nil
}
