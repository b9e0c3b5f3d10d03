package remote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

func newTestClient(server *httptest.Server) *HTTPClient {
	return &HTTPClient{
		httpClient: server.Client(),
		baseURL:    server.URL,
		realmID:    "realm-1",
		logger:     slog.Default(),
	}
}

func TestGetEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/companies/realm-1/purchases/p-9", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "p-9",
			"sync_token": "4",
			"account": {"id": "77", "name": "Uncategorized"}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	entity, err := client.GetEntity(context.Background(), model.EntityPurchase, "p-9")

	require.NoError(t, err)
	assert.Equal(t, "p-9", entity.ID)
	assert.Equal(t, "4", entity.SyncToken)
	assert.Equal(t, "Uncategorized", entity.AccountName)
}

func TestGetEntityNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.GetEntity(context.Background(), model.EntityPurchase, "missing")

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateEntityAccountConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "stale sync token"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.UpdateEntityAccount(context.Background(), AccountUpdate{
		Kind:      model.EntityPurchase,
		EntityID:  "p-9",
		SyncToken: "3",
		AccountID: "77",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteConflict)
	assert.Contains(t, err.Error(), "stale sync token")
}

func TestUpdateEntityAccountRequiresToken(t *testing.T) {
	client := &HTTPClient{logger: slog.Default()}

	_, err := client.UpdateEntityAccount(context.Background(), AccountUpdate{
		Kind:     model.EntityPurchase,
		EntityID: "p-9",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync token")
}

func TestUpdateEntityAccountUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.UpdateEntityAccount(context.Background(), AccountUpdate{
		Kind:      model.EntityDeposit,
		EntityID:  "d-1",
		SyncToken: "1",
	})

	assert.ErrorIs(t, err, common.ErrRemoteUnauthorized)
}

func TestFetchTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/companies/realm-1/transactions", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("start_date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"transactions": [
				{
					"id": "r-1",
					"date": "2025-01-15",
					"amount": -99.50,
					"vendor_name": "Henry Schein",
					"description": "supply order",
					"account_name": "Uncategorized",
					"raw": {"vendor": "Henry Schein"}
				},
				{
					"id": "r-2",
					"date": "2025-01-20",
					"amount": 1500,
					"vendor_name": "",
					"description": "patient payment",
					"account_name": "",
					"raw": {"deposit": {"line": 1}}
				}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	txns, err := client.FetchTransactions(context.Background(), "tenant-1", start, end)

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "tenant-1:r-1", txns[0].ID)
	assert.Equal(t, "r-1", txns[0].RemoteID)
	assert.Equal(t, model.EntityPurchase, txns[0].EntityKind)
	assert.Equal(t, model.EntityDeposit, txns[1].EntityKind)
}

func TestFetchTransactionsBadDateRange(t *testing.T) {
	client := &HTTPClient{logger: slog.Default()}
	now := time.Now()

	_, err := client.FetchTransactions(context.Background(), "tenant-1", now, now.Add(-time.Hour))

	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{
		BaseURL:      "https://ledger.example.com",
		RealmID:      "realm-1",
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	}
	require.NoError(t, cfg.Validate())

	missing := cfg
	missing.RefreshToken = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrNotFound))
}
