package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	if err := store.SaveTenant(ctx, &model.Tenant{
		ID:           "tenant-1",
		Name:         "Riverside Dental",
		IndustrySlug: "dental",
	}); err != nil {
		t.Fatalf("Failed to save tenant: %v", err)
	}

	return store
}

func testTransaction(id string) model.Transaction {
	return model.Transaction{
		ID:         id,
		TenantID:   "tenant-1",
		RemoteID:   "remote-" + id,
		Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:     -120.50,
		VendorName: "Henry Schein",
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestSaveTransactionsUpsert(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("tx-1")
	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Same remote id with updated account label must update, not duplicate
	txn.AccountName = "Dental Supplies"
	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	got, err := store.GetTransactionByID(ctx, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.AccountName != "Dental Supplies" {
		t.Errorf("AccountName = %q, want %q", got.AccountName, "Dental Supplies")
	}

	all, err := store.GetTransactions(ctx, "tenant-1", service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Transaction count = %d, want 1", len(all))
	}
}

func TestSaveTransactionsInfersEntityKind(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("tx-dep")
	txn.RawPayload = []byte(`{"deposit": {"amount": 500}}`)
	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	got, err := store.GetTransactionByID(ctx, "tenant-1", "tx-dep")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.EntityKind != model.EntityDeposit {
		t.Errorf("EntityKind = %q, want %q", got.EntityKind, model.EntityDeposit)
	}
}

func TestGetUncategorizedTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{testTransaction("tx-1"), testTransaction("tx-2")}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := store.SaveCategorization(ctx, &model.Categorization{
		TenantID:      "tenant-1",
		TransactionID: "tx-1",
		Category:      model.CategoryBusiness,
		Confidence:    100,
		Source:        model.SourceRule,
	}); err != nil {
		t.Fatalf("Failed to categorize: %v", err)
	}

	pending, err := store.GetUncategorizedTransactions(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "tx-2" {
		t.Errorf("Uncategorized = %+v, want only tx-2", pending)
	}

	// A transaction keeps being excluded even after more rows are appended
	if err := store.SaveCategorization(ctx, &model.Categorization{
		TenantID:      "tenant-1",
		TransactionID: "tx-1",
		Category:      model.CategoryPersonal,
		Confidence:    100,
		Source:        model.SourceUser,
	}); err != nil {
		t.Fatalf("Failed to categorize again: %v", err)
	}

	pending, err = store.GetUncategorizedTransactions(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("Uncategorized count = %d, want 1", len(pending))
	}
}
