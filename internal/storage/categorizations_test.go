package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

func TestCategorizationAppendOnlyLatestWins(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, []model.Transaction{testTransaction("tx-1")}); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	first := &model.Categorization{
		TenantID:      "tenant-1",
		TransactionID: "tx-1",
		Category:      model.CategoryBusiness,
		Confidence:    100,
		Source:        model.SourceRule,
		Reasoning:     "vendor matches industry supplier",
		CreatedAt:     time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC),
	}
	if err := store.SaveCategorization(ctx, first); err != nil {
		t.Fatalf("Failed to save first: %v", err)
	}

	second := &model.Categorization{
		TenantID:      "tenant-1",
		TransactionID: "tx-1",
		Category:      model.CategoryPersonal,
		Confidence:    100,
		Source:        model.SourceUser,
		Reasoning:     "corrected by owner",
		CreatedAt:     time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC),
	}
	if err := store.SaveCategorization(ctx, second); err != nil {
		t.Fatalf("Failed to save second: %v", err)
	}

	latest, err := store.GetLatestCategorization(ctx, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("Failed to get latest: %v", err)
	}
	if latest.Category != model.CategoryPersonal || latest.Source != model.SourceUser {
		t.Errorf("Latest = %+v, want the user correction", latest)
	}

	history, err := store.GetCategorizationHistory(ctx, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("History length = %d, want 2 (append-only)", len(history))
	}
}

func TestGetLatestCategorizationTieBreaksOnInsertOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, []model.Transaction{testTransaction("tx-1")}); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	stamp := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	for _, category := range []model.Category{model.CategoryBusiness, model.CategoryAmbiguous} {
		if err := store.SaveCategorization(ctx, &model.Categorization{
			TenantID:      "tenant-1",
			TransactionID: "tx-1",
			Category:      category,
			Confidence:    50,
			Source:        model.SourceRule,
			CreatedAt:     stamp,
		}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}

	latest, err := store.GetLatestCategorization(ctx, "tenant-1", "tx-1")
	if err != nil {
		t.Fatalf("Failed to get latest: %v", err)
	}
	if latest.Category != model.CategoryAmbiguous {
		t.Errorf("Latest category = %q, want the most recently inserted row", latest.Category)
	}
}

func TestGetLatestCategorizationNotFound(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetLatestCategorization(ctx, "tenant-1", "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Error = %v, want ErrNotFound", err)
	}
}

func TestSaveCategorizationValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		c    model.Categorization
	}{
		{"bad category", model.Categorization{TenantID: "tenant-1", TransactionID: "tx-1", Category: "maybe", Source: model.SourceRule}},
		{"bad source", model.Categorization{TenantID: "tenant-1", TransactionID: "tx-1", Category: model.CategoryBusiness, Source: "oracle"}},
		{"confidence above range", model.Categorization{TenantID: "tenant-1", TransactionID: "tx-1", Category: model.CategoryBusiness, Source: model.SourceRule, Confidence: 101}},
		{"confidence below range", model.Categorization{TenantID: "tenant-1", TransactionID: "tx-1", Category: model.CategoryBusiness, Source: model.SourceRule, Confidence: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			if err := store.SaveCategorization(ctx, &c); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestUserRulesOrderedByPriority(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rules := []model.UserRule{
		{TenantID: "tenant-1", MatchType: model.MatchVendor, MatchValue: "acme", Category: model.CategoryBusiness, Priority: 20},
		{TenantID: "tenant-1", MatchType: model.MatchVendor, MatchValue: "globex", Category: model.CategoryPersonal, Priority: 5},
	}
	for i := range rules {
		if err := store.SaveUserRule(ctx, &rules[i]); err != nil {
			t.Fatalf("Failed to save rule: %v", err)
		}
	}

	got, err := store.GetUserRules(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to get rules: %v", err)
	}
	if len(got) != 2 || got[0].MatchValue != "globex" {
		t.Errorf("Rules = %+v, want globex first (priority 5)", got)
	}

	if err := store.DeleteUserRule(ctx, "tenant-1", got[0].ID); err != nil {
		t.Fatalf("Failed to delete rule: %v", err)
	}
	if err := store.DeleteUserRule(ctx, "tenant-1", got[0].ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Second delete = %v, want ErrNotFound", err)
	}
}

func TestAccountMappingsOnePerCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	mapping := &model.AccountMapping{
		TenantID:    "tenant-1",
		Category:    model.CategoryBusiness,
		AccountID:   "77",
		AccountName: "Dental Supplies",
	}
	if err := store.SaveAccountMapping(ctx, mapping); err != nil {
		t.Fatalf("Failed to save mapping: %v", err)
	}

	// Re-mapping the category replaces the previous account
	mapping.AccountID = "88"
	mapping.AccountName = "Office Expenses"
	if err := store.SaveAccountMapping(ctx, mapping); err != nil {
		t.Fatalf("Failed to re-save mapping: %v", err)
	}

	mappings, err := store.GetAccountMappings(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to get mappings: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("Mapping count = %d, want 1", len(mappings))
	}
	if mappings[0].AccountID != "88" {
		t.Errorf("AccountID = %q, want 88", mappings[0].AccountID)
	}
}

func TestAuditLogRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	entry := &model.AuditEntry{
		TenantID:   "tenant-1",
		ActorID:    "user-9",
		Action:     model.AuditActionWriteBack,
		EntityType: "transaction",
		EntityID:   "tx-1",
		OldValue:   "Uncategorized",
		NewValue:   "Dental Supplies",
	}
	if err := store.SaveAuditEntry(ctx, entry); err != nil {
		t.Fatalf("Failed to save audit entry: %v", err)
	}
	if entry.ID == "" {
		t.Error("Expected generated audit entry id")
	}

	entries, err := store.GetAuditEntries(ctx, "tenant-1", 10)
	if err != nil {
		t.Fatalf("Failed to get audit entries: %v", err)
	}
	if len(entries) != 1 || entries[0].NewValue != "Dental Supplies" {
		t.Errorf("Entries = %+v", entries)
	}
}

func TestIndustryOverrideRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetIndustryOverride(ctx, "tenant-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Error = %v, want ErrNotFound before save", err)
	}

	cfg := &model.IndustryConfig{
		Slug:          "custom",
		SupplyVendors: []string{"Henry Schein"},
	}
	if err := store.SaveIndustryOverride(ctx, "tenant-1", cfg); err != nil {
		t.Fatalf("Failed to save override: %v", err)
	}

	got, err := store.GetIndustryOverride(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to get override: %v", err)
	}
	if got.Slug != "custom" || len(got.SupplyVendors) != 1 {
		t.Errorf("Override = %+v", got)
	}
}
