// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/sablefin/sable/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. All reads and
// writes are tenant-scoped.
type Storage interface {
	// Tenant operations
	GetTenant(ctx context.Context, tenantID string) (*model.Tenant, error)
	SaveTenant(ctx context.Context, tenant *model.Tenant) error

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, tenantID, id string) (*model.Transaction, error)
	GetUncategorizedTransactions(ctx context.Context, tenantID string) ([]model.Transaction, error)
	GetTransactions(ctx context.Context, tenantID string, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransactionAccount(ctx context.Context, tenantID, id, accountName string) error

	// Categorization operations (append-only; latest row by created_at wins)
	SaveCategorization(ctx context.Context, categorization *model.Categorization) error
	GetLatestCategorization(ctx context.Context, tenantID, transactionID string) (*model.Categorization, error)
	GetCategorizationHistory(ctx context.Context, tenantID, transactionID string) ([]model.Categorization, error)

	// User rule operations
	GetUserRules(ctx context.Context, tenantID string) ([]model.UserRule, error)
	SaveUserRule(ctx context.Context, rule *model.UserRule) error
	DeleteUserRule(ctx context.Context, tenantID string, id int64) error

	// Industry configuration override
	GetIndustryOverride(ctx context.Context, tenantID string) (*model.IndustryConfig, error)
	SaveIndustryOverride(ctx context.Context, tenantID string, config *model.IndustryConfig) error

	// Account mapping operations
	GetAccountMappings(ctx context.Context, tenantID string) ([]model.AccountMapping, error)
	SaveAccountMapping(ctx context.Context, mapping *model.AccountMapping) error

	// Audit log operations
	SaveAuditEntry(ctx context.Context, entry *model.AuditEntry) error
	GetAuditEntries(ctx context.Context, tenantID string, limit int) ([]model.AuditEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CategorizationResult shows the outcome of one batch categorization run.
type CategorizationResult struct {
	Categorized   int
	Uncategorized int
	Failed        int
}

// WriteBackError records one failed item within a write-back batch.
type WriteBackError struct {
	TransactionID string
	Message       string
}

// WriteBackResult aggregates per-item outcomes of one write-back batch.
// Succeeded + Failed equals the number of requested ids unless the batch
// was canceled between items.
type WriteBackResult struct {
	Errors    []WriteBackError
	Succeeded int
	Failed    int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
