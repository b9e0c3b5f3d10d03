package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
)

// SaveTransactions upserts synced transactions. The sync process owns these
// rows; conflicting (tenant_id, remote_id) pairs update the mutable fields
// and leave everything else alone.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, tenant_id, remote_id, date, amount,
			vendor_name, description, account_name, entity_kind, raw_payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, remote_id) DO UPDATE SET
			date = excluded.date,
			amount = excluded.amount,
			vendor_name = excluded.vendor_name,
			description = excluded.description,
			account_name = excluded.account_name,
			entity_kind = excluded.entity_kind,
			raw_payload = excluded.raw_payload
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if txn.EntityKind == "" {
			txn.EntityKind = model.InferEntityKind(txn.RawPayload)
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.TenantID,
			txn.RemoteID,
			txn.Date,
			txn.Amount,
			txn.VendorName,
			txn.Description,
			txn.AccountName,
			string(txn.EntityKind),
			string(txn.RawPayload),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionByID retrieves a single transaction scoped to a tenant.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, tenantID, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, remote_id, date, amount,
		       vendor_name, description, account_name, entity_kind, raw_payload, created_at
		FROM transactions
		WHERE tenant_id = ? AND id = ?
	`, tenantID, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetUncategorizedTransactions returns all tenant transactions with zero
// categorization rows, ordered by date then id. Callers must not depend on
// this ordering.
func (s *SQLiteStorage) GetUncategorizedTransactions(ctx context.Context, tenantID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.tenant_id, t.remote_id, t.date, t.amount,
		       t.vendor_name, t.description, t.account_name, t.entity_kind, t.raw_payload, t.created_at
		FROM transactions t
		LEFT JOIN categorizations c ON c.transaction_id = t.id
		WHERE t.tenant_id = ? AND c.id IS NULL
		ORDER BY t.date, t.id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// GetTransactions returns tenant transactions matching the filter, newest
// first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, tenantID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, tenant_id, remote_id, date, amount,
		       vendor_name, description, account_name, entity_kind, raw_payload, created_at
		FROM transactions
		WHERE tenant_id = ?
	`)
	args := []any{tenantID}

	if filter.StartDate != nil {
		query.WriteString(" AND date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query.WriteString(" AND date <= ?")
		args = append(args, *filter.EndDate)
	}

	query.WriteString(" ORDER BY date DESC, id")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query.WriteString(" OFFSET ?")
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// UpdateTransactionAccount updates the locally cached remote account label
// after a successful write-back.
func (s *SQLiteStorage) UpdateTransactionAccount(ctx context.Context, tenantID, id, accountName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET account_name = ?
		WHERE tenant_id = ? AND id = ?
	`, accountName, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// rowScanner abstracts over *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var vendorName, description, accountName, rawPayload sql.NullString
	var entityKind string

	err := row.Scan(
		&txn.ID,
		&txn.TenantID,
		&txn.RemoteID,
		&txn.Date,
		&txn.Amount,
		&vendorName,
		&description,
		&accountName,
		&entityKind,
		&rawPayload,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.VendorName = vendorName.String
	txn.Description = description.String
	txn.AccountName = accountName.String
	txn.EntityKind = model.RemoteEntityKind(entityKind)
	if rawPayload.Valid && rawPayload.String != "" {
		txn.RawPayload = []byte(rawPayload.String)
	}

	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
