// Package remote provides a client for the Ledger accounting API: the
// external system of record that supplies transactions and accepts
// account write-backs.
package remote

import (
	"context"
	"time"

	"github.com/sablefin/sable/internal/model"
)

// Entity is a remote accounting entity as returned by a read. SyncToken is
// the concurrency token the remote system issues on read and increments on
// every successful write; a write carrying a stale token is rejected.
type Entity struct {
	Kind        model.RemoteEntityKind
	ID          string
	SyncToken   string
	AccountID   string
	AccountName string
}

// AccountUpdate is a sparse update changing only an entity's account
// reference. The SyncToken must be the one returned by the preceding read.
type AccountUpdate struct {
	Kind        model.RemoteEntityKind
	EntityID    string
	SyncToken   string
	AccountID   string
	AccountName string
}

// Client defines the contract for talking to the remote accounting system.
type Client interface {
	// GetEntity reads one entity, returning its current sync token.
	GetEntity(ctx context.Context, kind model.RemoteEntityKind, id string) (*Entity, error)

	// UpdateEntityAccount submits a sparse account update. Returns
	// common.ErrRemoteConflict when the carried token is stale.
	UpdateEntityAccount(ctx context.Context, update AccountUpdate) (*Entity, error)

	// FetchTransactions pulls the tenant's transactions in the date range
	// for local ingestion.
	FetchTransactions(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]model.Transaction, error)
}
