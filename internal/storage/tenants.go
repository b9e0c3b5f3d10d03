package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

// GetTenant retrieves a tenant record.
func (s *SQLiteStorage) GetTenant(ctx context.Context, tenantID string) (*model.Tenant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	var tenant model.Tenant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, industry_slug, created_at
		FROM tenants
		WHERE id = ?
	`, tenantID).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.IndustrySlug,
		&tenant.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

// SaveTenant inserts or updates a tenant record.
func (s *SQLiteStorage) SaveTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if tenant == nil {
		return fmt.Errorf("%w: tenant", ErrNilParameter)
	}
	if err := validateString(tenant.ID, "tenant.ID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, industry_slug)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry_slug = excluded.industry_slug
	`, tenant.ID, tenant.Name, tenant.IndustrySlug)
	if err != nil {
		return fmt.Errorf("failed to save tenant: %w", err)
	}

	return nil
}

// GetIndustryOverride returns the tenant's configuration override, or
// common.ErrNotFound when none is set.
func (s *SQLiteStorage) GetIndustryOverride(ctx context.Context, tenantID string) (*model.IndustryConfig, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT config FROM industry_overrides WHERE tenant_id = ?
	`, tenantID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("industry override for tenant %s: %w", tenantID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get industry override: %w", err)
	}

	var config model.IndustryConfig
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("failed to parse industry override: %w", err)
	}

	return &config, nil
}

// SaveIndustryOverride stores a tenant-specific configuration override.
func (s *SQLiteStorage) SaveIndustryOverride(ctx context.Context, tenantID string, config *model.IndustryConfig) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}
	if config == nil {
		return fmt.Errorf("%w: config", ErrNilParameter)
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode industry override: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO industry_overrides (tenant_id, config, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			config = excluded.config,
			updated_at = excluded.updated_at
	`, tenantID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save industry override: %w", err)
	}

	return nil
}
