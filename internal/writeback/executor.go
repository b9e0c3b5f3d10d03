package writeback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/remote"
	"github.com/sablefin/sable/internal/service"
)

// InterCallDelay is the fixed pause after every remote write, sized to stay
// under the Ledger API's per-minute call ceiling for a sequential batch.
const InterCallDelay = time.Minute / remote.MaxCallsPerMinute

// Executor applies account updates to the remote accounting system, one
// item at a time.
type Executor struct {
	storage service.Storage
	client  remote.Client
	logger  *slog.Logger
	delay   time.Duration
}

// NewExecutor creates a write-back executor.
func NewExecutor(storage service.Storage, client remote.Client) *Executor {
	return &Executor{
		storage: storage,
		client:  client,
		logger:  slog.Default().With("component", "writeback"),
		delay:   InterCallDelay,
	}
}

// Execute processes the given transaction ids sequentially. Each item does
// a remote read to obtain the current sync token, then a sparse write
// carrying that token; a stale-token rejection is recorded as a per-item
// failure and never retried. A failed item does not block later items.
// Cancellation is honored only between items, never mid-item. One summary
// audit entry is written however the batch ends.
func (e *Executor) Execute(ctx context.Context, tenantID string, transactionIDs []string, actorID string) (*service.WriteBackResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if len(transactionIDs) == 0 {
		return nil, common.ErrNoTransactions
	}

	mappings, err := e.storage.GetAccountMappings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account mappings: %w", err)
	}
	byCategory := make(map[model.Category]model.AccountMapping, len(mappings))
	for _, m := range mappings {
		byCategory[m.Category] = m
	}

	result := &service.WriteBackResult{}
	var runErr error

	e.logger.Info("Starting write-back batch",
		"tenant_id", tenantID,
		"items", len(transactionIDs),
		"actor_id", actorID)

	for _, id := range transactionIDs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if err := e.processItem(ctx, tenantID, id, actorID, byCategory); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, service.WriteBackError{
				TransactionID: id,
				Message:       err.Error(),
			})
			e.logger.Warn("Write-back item failed",
				"transaction_id", id,
				"error", err)
		} else {
			result.Succeeded++
		}
	}

	e.writeSummary(ctx, tenantID, actorID, result)

	e.logger.Info("Write-back batch complete",
		"tenant_id", tenantID,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, runErr
}

// processItem runs one transaction through the read-modify-write cycle.
func (e *Executor) processItem(ctx context.Context, tenantID, id, actorID string, byCategory map[model.Category]model.AccountMapping) error {
	txn, err := e.storage.GetTransactionByID(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}

	cat, err := e.storage.GetLatestCategorization(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("no categorization: %w", err)
	}

	mapping, ok := byCategory[cat.Category]
	if !ok {
		return fmt.Errorf("%w for category %s", common.ErrNoAccountMapping, cat.Category)
	}

	entity, err := e.client.GetEntity(ctx, txn.EntityKind, txn.RemoteID)
	if err != nil {
		return fmt.Errorf("remote read failed: %w", err)
	}

	_, err = e.client.UpdateEntityAccount(ctx, remote.AccountUpdate{
		Kind:        txn.EntityKind,
		EntityID:    txn.RemoteID,
		SyncToken:   entity.SyncToken,
		AccountID:   mapping.AccountID,
		AccountName: mapping.AccountName,
	})
	e.pause()
	if err != nil {
		if errors.Is(err, common.ErrRemoteConflict) {
			return fmt.Errorf("concurrent modification: %w", err)
		}
		return fmt.Errorf("remote write failed: %w", err)
	}

	if err := e.storage.UpdateTransactionAccount(ctx, tenantID, txn.ID, mapping.AccountName); err != nil {
		return fmt.Errorf("remote write committed but local update failed: %w", err)
	}

	audit := &model.AuditEntry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     model.AuditActionWriteBack,
		EntityType: "transaction",
		EntityID:   txn.ID,
		OldValue:   entity.AccountName,
		NewValue:   fmt.Sprintf("%s (%s)", mapping.AccountName, cat.Category),
	}
	if err := e.storage.SaveAuditEntry(ctx, audit); err != nil {
		// The write-back itself succeeded; losing the audit row is not
		// worth failing the item over.
		e.logger.Error("Failed to write audit entry",
			"transaction_id", txn.ID,
			"error", err)
	}

	return nil
}

// pause blocks for the fixed inter-call delay after a remote write.
func (e *Executor) pause() {
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
}

func (e *Executor) writeSummary(ctx context.Context, tenantID, actorID string, result *service.WriteBackResult) {
	// The summary is written even when the batch was canceled.
	ctx = context.WithoutCancel(ctx)

	entry := &model.AuditEntry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     model.AuditActionWriteBackSummary,
		EntityType: "writeback_batch",
		NewValue:   fmt.Sprintf("succeeded=%d failed=%d", result.Succeeded, result.Failed),
	}
	if err := e.storage.SaveAuditEntry(ctx, entry); err != nil {
		e.logger.Error("Failed to write batch summary audit entry", "error", err)
	}
}
