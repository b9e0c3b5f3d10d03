// Package testutil provides shared helpers for tests that need a real
// storage backend with a seeded tenant.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/storage"
)

// TestTenantID is the tenant every SetupTestDB call seeds.
const TestTenantID = "tenant-1"

// SetupTestDB creates a migrated in-memory database seeded with a dental
// tenant. Cleanup is registered automatically.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if err := store.SaveTenant(ctx, &model.Tenant{
		ID:           TestTenantID,
		Name:         "Riverside Dental",
		IndustrySlug: "dental",
	}); err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}

	return store
}

// Transaction returns a purchase for the seeded tenant with sensible
// defaults, overridable through the configure callback.
func Transaction(id string, configure func(*model.Transaction)) model.Transaction {
	txn := model.Transaction{
		ID:          id,
		TenantID:    TestTenantID,
		RemoteID:    "remote-" + id,
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:      -120.50,
		VendorName:  "Henry Schein",
		AccountName: "Uncategorized",
		EntityKind:  model.EntityPurchase,
	}
	if configure != nil {
		configure(&txn)
	}
	return txn
}

// SeedTransactions saves the given transactions, failing the test on error.
func SeedTransactions(t *testing.T, store *storage.SQLiteStorage, txns ...model.Transaction) {
	t.Helper()

	if err := store.SaveTransactions(context.Background(), txns); err != nil {
		t.Fatalf("failed to seed transactions: %v", err)
	}
}
