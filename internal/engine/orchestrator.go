// Package engine orchestrates batch categorization: it resolves a tenant's
// industry configuration and user rules once, then classifies every
// transaction that has no categorization history yet.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sablefin/sable/internal/industry"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/rules"
	"github.com/sablefin/sable/internal/service"
)

// ProgressFunc is called after each transaction is processed.
type ProgressFunc func(done, total int)

// Options tunes a single orchestrator run.
type Options struct {
	// Progress receives per-row completion updates. May be nil.
	Progress ProgressFunc

	// UseAccountFallback enables account-label classification for
	// transactions the rule engine leaves unmatched. It never overrides
	// a rule match.
	UseAccountFallback bool
}

// Orchestrator runs batch categorization for a tenant.
type Orchestrator struct {
	storage  service.Storage
	resolver *industry.Resolver
	logger   *slog.Logger
}

// NewOrchestrator creates a batch categorization orchestrator.
func NewOrchestrator(storage service.Storage, resolver *industry.Resolver) *Orchestrator {
	return &Orchestrator{
		storage:  storage,
		resolver: resolver,
		logger:   slog.Default().With("component", "engine"),
	}
}

// Run categorizes every uncategorized transaction for the tenant. A
// transaction with any categorization row, however old or low-confidence,
// is never re-evaluated. Per-row save failures are isolated: they are
// counted and logged, and the batch continues.
func (o *Orchestrator) Run(ctx context.Context, tenantID string, opts Options) (*service.CategorizationResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}

	config, err := o.resolver.Resolve(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve industry config: %w", err)
	}

	userRules, err := o.storage.GetUserRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user rules: %w", err)
	}

	transactions, err := o.storage.GetUncategorizedTransactions(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	ruleEngine := rules.NewEngine(config, userRules)
	result := &service.CategorizationResult{}

	o.logger.Info("Starting categorization run",
		"tenant_id", tenantID,
		"transactions", len(transactions),
		"user_rules", len(userRules),
		"industry", config.Slug)

	for i, txn := range transactions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		match := ruleEngine.Classify(txn)
		if match == nil && opts.UseAccountFallback {
			match = rules.MatchAccountLabel(config, txn.AccountName)
		}

		if match == nil {
			result.Uncategorized++
		} else if err := o.saveMatch(ctx, txn, match); err != nil {
			result.Failed++
			o.logger.Error("Failed to save categorization",
				"transaction_id", txn.ID,
				"error", err)
		} else {
			result.Categorized++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(transactions))
		}
	}

	o.logger.Info("Categorization run complete",
		"tenant_id", tenantID,
		"categorized", result.Categorized,
		"uncategorized", result.Uncategorized,
		"failed", result.Failed)

	return result, nil
}

func (o *Orchestrator) saveMatch(ctx context.Context, txn model.Transaction, match *rules.Match) error {
	return o.storage.SaveCategorization(ctx, &model.Categorization{
		TenantID:      txn.TenantID,
		TransactionID: txn.ID,
		Category:      match.Category,
		Confidence:    match.Confidence,
		Source:        model.SourceRule,
		RuleID:        match.RuleID,
		Reasoning:     match.Reasoning,
		CreatedAt:     time.Now().UTC(),
	})
}
