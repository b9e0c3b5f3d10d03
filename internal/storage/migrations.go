package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS tenants (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					industry_slug TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					tenant_id TEXT NOT NULL,
					remote_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					amount REAL NOT NULL,
					vendor_name TEXT,
					description TEXT,
					account_name TEXT,
					entity_kind TEXT NOT NULL DEFAULT 'purchase',
					raw_payload TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(tenant_id, remote_id),
					FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_transactions_tenant_date ON transactions(tenant_id, date)`,

				`CREATE TABLE IF NOT EXISTS categorizations (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					transaction_id TEXT NOT NULL,
					category TEXT NOT NULL,
					confidence INTEGER NOT NULL DEFAULT 0,
					source TEXT NOT NULL,
					rule_id INTEGER,
					reasoning TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (transaction_id) REFERENCES transactions(id)
				)`,
				`CREATE INDEX idx_categorizations_transaction ON categorizations(transaction_id, created_at)`,

				`CREATE TABLE IF NOT EXISTS user_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					match_type TEXT NOT NULL,
					match_value TEXT NOT NULL,
					category TEXT NOT NULL,
					priority INTEGER NOT NULL DEFAULT 100,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_user_rules_tenant ON user_rules(tenant_id, priority)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add account mappings for write-back",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS account_mappings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					category TEXT NOT NULL,
					account_id TEXT NOT NULL,
					account_name TEXT NOT NULL,
					UNIQUE(tenant_id, category),
					FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add audit log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS audit_log (
					id TEXT PRIMARY KEY,
					tenant_id TEXT NOT NULL,
					actor_id TEXT NOT NULL,
					action TEXT NOT NULL,
					entity_type TEXT NOT NULL,
					entity_id TEXT,
					old_value TEXT,
					new_value TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_audit_log_tenant ON audit_log(tenant_id, created_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Add per-tenant industry configuration overrides",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS industry_overrides (
					tenant_id TEXT PRIMARY KEY,
					config TEXT NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
				)
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
