package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sablefin/sable/internal/model"
)

// SaveAuditEntry appends one row to the audit log. Entries are never updated
// or deleted.
func (s *SQLiteStorage) SaveAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAuditEntry(entry); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, tenant_id, actor_id, action, entity_type,
			entity_id, old_value, new_value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.TenantID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.OldValue,
		entry.NewValue,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}

	return nil
}

// GetAuditEntries returns the most recent audit entries for a tenant.
func (s *SQLiteStorage) GetAuditEntries(ctx context.Context, tenantID string, limit int) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, actor_id, action, entity_type,
		       entity_id, old_value, new_value, created_at
		FROM audit_log
		WHERE tenant_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditEntry
	for rows.Next() {
		var entry model.AuditEntry
		var entityID, oldValue, newValue sql.NullString

		if scanErr := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityType,
			&entityID,
			&oldValue,
			&newValue,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", scanErr)
		}

		entry.EntityID = entityID.String
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
