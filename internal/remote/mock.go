package remote

import (
	"context"
	"time"

	"github.com/sablefin/sable/internal/model"
)

// MockClient is a mock implementation of Client for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	GetEntityFn           func(ctx context.Context, kind model.RemoteEntityKind, id string) (*Entity, error)
	UpdateEntityAccountFn func(ctx context.Context, update AccountUpdate) (*Entity, error)
	FetchTransactionsFn   func(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]model.Transaction, error)

	// Call tracking
	GetEntityCalls []string
	UpdateCalls    []AccountUpdate
	FetchCalls     int
}

// NewMockClient creates a new mock Ledger client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// GetEntity implements Client.GetEntity.
func (m *MockClient) GetEntity(ctx context.Context, kind model.RemoteEntityKind, id string) (*Entity, error) {
	m.GetEntityCalls = append(m.GetEntityCalls, id)

	if m.GetEntityFn != nil {
		return m.GetEntityFn(ctx, kind, id)
	}

	return &Entity{Kind: kind, ID: id, SyncToken: "0"}, nil
}

// UpdateEntityAccount implements Client.UpdateEntityAccount.
func (m *MockClient) UpdateEntityAccount(ctx context.Context, update AccountUpdate) (*Entity, error) {
	m.UpdateCalls = append(m.UpdateCalls, update)

	if m.UpdateEntityAccountFn != nil {
		return m.UpdateEntityAccountFn(ctx, update)
	}

	return &Entity{
		Kind:        update.Kind,
		ID:          update.EntityID,
		SyncToken:   update.SyncToken + "+",
		AccountID:   update.AccountID,
		AccountName: update.AccountName,
	}, nil
}

// FetchTransactions implements Client.FetchTransactions.
func (m *MockClient) FetchTransactions(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]model.Transaction, error) {
	m.FetchCalls++

	if m.FetchTransactionsFn != nil {
		return m.FetchTransactionsFn(ctx, tenantID, startDate, endDate)
	}

	return []model.Transaction{}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.GetEntityCalls = nil
	m.UpdateCalls = nil
	m.FetchCalls = 0
}

// Ensure MockClient implements the Client interface.
var _ Client = (*MockClient)(nil)
