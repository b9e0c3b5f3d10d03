package industry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
)

// Resolver produces the effective IndustryConfig for a tenant. Resolution is
// deterministic and performs no writes.
type Resolver struct {
	storage service.Storage
	logger  *slog.Logger
}

// NewResolver creates a resolver backed by the given storage.
func NewResolver(storage service.Storage) *Resolver {
	return &Resolver{
		storage: storage,
		logger:  slog.Default().With("component", "industry"),
	}
}

// Resolve returns the tenant's configuration: override row first, then the
// named template for the tenant's industry slug, then the generic default.
// A tenant that cannot be read is an error, never a silent default.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*model.IndustryConfig, error) {
	override, err := r.storage.GetIndustryOverride(ctx, tenantID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load industry override: %w", err)
	}
	if override != nil {
		r.logger.Debug("Using tenant industry override", "tenant_id", tenantID)
		return override, nil
	}

	tenant, err := r.storage.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}

	if cfg := TemplateFor(tenant.IndustrySlug); cfg != nil {
		r.logger.Debug("Using industry template",
			"tenant_id", tenantID,
			"slug", tenant.IndustrySlug)
		return cfg, nil
	}

	r.logger.Debug("Unknown industry slug, using generic default",
		"tenant_id", tenantID,
		"slug", tenant.IndustrySlug)
	return GenericDefault(), nil
}
