package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/sable/internal/industry"
	"github.com/sablefin/sable/internal/model"
	"github.com/sablefin/sable/internal/service"
	"github.com/sablefin/sable/internal/testutil"
)

func TestRunCategorizesByVendor(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store,
		testutil.Transaction("tx-supply", nil),
		testutil.Transaction("tx-streaming", func(txn *model.Transaction) {
			txn.VendorName = "Netflix"
			txn.Amount = -15.99
		}),
		testutil.Transaction("tx-retail", func(txn *model.Transaction) {
			txn.VendorName = "Amazon.com"
		}),
		testutil.Transaction("tx-unknown", func(txn *model.Transaction) {
			txn.VendorName = "Bob's Landscaping"
		}),
	)

	orch := NewOrchestrator(store, industry.NewResolver(store))
	result, err := orch.Run(ctx, testutil.TestTenantID, Options{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Categorized)
	assert.Equal(t, 1, result.Uncategorized)
	assert.Equal(t, 0, result.Failed)

	supply, err := store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-supply")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBusiness, supply.Category)
	assert.Equal(t, 100, supply.Confidence)
	assert.Equal(t, model.SourceRule, supply.Source)

	retail, err := store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-retail")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryAmbiguous, retail.Category)
	assert.Equal(t, 40, retail.Confidence)

	_, err = store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-unknown")
	assert.Error(t, err)
}

func TestRunSkipsAlreadyCategorized(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store, testutil.Transaction("tx-1", nil))

	// A prior row, even low-confidence, takes the transaction out of scope.
	require.NoError(t, store.SaveCategorization(ctx, &model.Categorization{
		TenantID:      testutil.TestTenantID,
		TransactionID: "tx-1",
		Category:      model.CategoryAmbiguous,
		Confidence:    10,
		Source:        model.SourceModel,
	}))

	orch := NewOrchestrator(store, industry.NewResolver(store))
	result, err := orch.Run(ctx, testutil.TestTenantID, Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Categorized)
	assert.Equal(t, 0, result.Uncategorized)

	history, err := store.GetCategorizationHistory(ctx, testutil.TestTenantID, "tx-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRunUserRuleBeatsBuiltins(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store, testutil.Transaction("tx-1", nil))
	require.NoError(t, store.SaveUserRule(ctx, &model.UserRule{
		TenantID:   testutil.TestTenantID,
		MatchType:  model.MatchVendor,
		MatchValue: "henry schein",
		Category:   model.CategoryPersonal,
		Priority:   10,
	}))

	orch := NewOrchestrator(store, industry.NewResolver(store))
	result, err := orch.Run(ctx, testutil.TestTenantID, Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Categorized)

	latest, err := store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryPersonal, latest.Category)
	require.NotNil(t, latest.RuleID)
}

func TestRunAccountFallback(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	unmatched := testutil.Transaction("tx-1", func(txn *model.Transaction) {
		txn.VendorName = "Bob's Landscaping"
		txn.AccountName = "Dental Supplies"
	})
	testutil.SeedTransactions(t, store, unmatched)

	orch := NewOrchestrator(store, industry.NewResolver(store))

	// Fallback off: the transaction stays uncategorized.
	result, err := orch.Run(ctx, testutil.TestTenantID, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uncategorized)

	// Fallback on: the account label classifies it.
	result, err = orch.Run(ctx, testutil.TestTenantID, Options{UseAccountFallback: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Categorized)

	latest, err := store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBusiness, latest.Category)
	assert.Equal(t, 95, latest.Confidence)
}

func TestRunIsolatesRowFailures(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store,
		testutil.Transaction("tx-1", nil),
		testutil.Transaction("tx-2", func(txn *model.Transaction) {
			txn.VendorName = "Netflix"
		}),
	)

	failing := &failingSaveStorage{Storage: store, failFor: "tx-1"}
	orch := NewOrchestrator(failing, industry.NewResolver(failing))
	result, err := orch.Run(ctx, testutil.TestTenantID, Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Categorized)
	assert.Equal(t, 1, result.Failed)

	latest, err := store.GetLatestCategorization(ctx, testutil.TestTenantID, "tx-2")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryPersonal, latest.Category)
}

func TestRunReportsProgress(t *testing.T) {
	store := testutil.SetupTestDB(t)

	testutil.SeedTransactions(t, store,
		testutil.Transaction("tx-1", nil),
		testutil.Transaction("tx-2", nil),
	)

	var calls []int
	orch := NewOrchestrator(store, industry.NewResolver(store))
	_, err := orch.Run(context.Background(), testutil.TestTenantID, Options{
		Progress: func(done, total int) {
			assert.Equal(t, 2, total)
			calls = append(calls, done)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
}

func TestRunEmptyBatch(t *testing.T) {
	store := testutil.SetupTestDB(t)

	orch := NewOrchestrator(store, industry.NewResolver(store))
	result, err := orch.Run(context.Background(), testutil.TestTenantID, Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Categorized)
	assert.Equal(t, 0, result.Uncategorized)
}

func TestRunRequiresTenantID(t *testing.T) {
	store := testutil.SetupTestDB(t)

	orch := NewOrchestrator(store, industry.NewResolver(store))
	_, err := orch.Run(context.Background(), "", Options{})

	require.Error(t, err)
}

// failingSaveStorage fails categorization saves for one transaction id.
type failingSaveStorage struct {
	service.Storage
	failFor string
}

func (f *failingSaveStorage) SaveCategorization(ctx context.Context, c *model.Categorization) error {
	if c.TransactionID == f.failFor {
		return errors.New("disk full")
	}
	return f.Storage.SaveCategorization(ctx, c)
}
