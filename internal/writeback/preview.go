// Package writeback pushes categorization results into the remote
// accounting system: a preview builder that proposes updates and an
// executor that applies them with optimistic concurrency.
package writeback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
)

// PreviewOptions filters which transactions are proposed for write-back.
type PreviewOptions struct {
	// SinceDate limits the preview to transactions on or after this date.
	SinceDate *time.Time

	// Categories, when non-empty, restricts the preview to these
	// categorization outcomes.
	Categories []model.Category

	// OnlyHighConfidence drops items whose latest categorization scored
	// below 90.
	OnlyHighConfidence bool
}

// PreviewItem is one proposed remote account update.
type PreviewItem struct {
	Date              time.Time
	TransactionID     string
	RemoteID          string
	VendorName        string
	CurrentAccount    string
	TargetAccountID   string
	TargetAccountName string
	Category          model.Category
	EntityKind        model.RemoteEntityKind
	Amount            float64
	Confidence        int
}

// Builder assembles write-back previews.
type Builder struct {
	storage service.Storage
	logger  *slog.Logger
}

// NewBuilder creates a preview builder.
func NewBuilder(storage service.Storage) *Builder {
	return &Builder{
		storage: storage,
		logger:  slog.Default().With("component", "writeback"),
	}
}

// Preview proposes remote updates for categorized transactions. A tenant
// with no account mappings gets an empty preview. Transactions already in
// their target state are never re-proposed.
func (b *Builder) Preview(ctx context.Context, tenantID string, opts PreviewOptions) ([]PreviewItem, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}

	mappings, err := b.storage.GetAccountMappings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account mappings: %w", err)
	}
	if len(mappings) == 0 {
		b.logger.Info("No account mappings configured, preview is empty",
			"tenant_id", tenantID)
		return []PreviewItem{}, nil
	}

	byCategory := make(map[model.Category]model.AccountMapping, len(mappings))
	for _, m := range mappings {
		byCategory[m.Category] = m
	}

	transactions, err := b.storage.GetTransactions(ctx, tenantID, service.TransactionFilter{
		StartDate: opts.SinceDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	items := []PreviewItem{}
	for _, txn := range transactions {
		cat, err := b.storage.GetLatestCategorization(ctx, tenantID, txn.ID)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load categorization for %s: %w", txn.ID, err)
		}

		if opts.OnlyHighConfidence && cat.Confidence < 90 {
			continue
		}
		if len(opts.Categories) > 0 && !categoryIncluded(opts.Categories, cat.Category) {
			continue
		}

		mapping, ok := byCategory[cat.Category]
		if !ok {
			continue
		}

		// Already in target state: nothing to propose.
		if strings.EqualFold(txn.AccountName, mapping.AccountName) {
			continue
		}

		items = append(items, PreviewItem{
			TransactionID:     txn.ID,
			RemoteID:          txn.RemoteID,
			EntityKind:        txn.EntityKind,
			Date:              txn.Date,
			Amount:            txn.Amount,
			VendorName:        txn.VendorName,
			Category:          cat.Category,
			Confidence:        cat.Confidence,
			CurrentAccount:    txn.AccountName,
			TargetAccountID:   mapping.AccountID,
			TargetAccountName: mapping.AccountName,
		})
	}

	b.logger.Info("Built write-back preview",
		"tenant_id", tenantID,
		"candidates", len(transactions),
		"proposed", len(items))

	return items, nil
}

func categoryIncluded(categories []model.Category, category model.Category) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
