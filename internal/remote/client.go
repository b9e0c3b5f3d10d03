package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/model"
)

// MaxCallsPerMinute is the Ledger API's documented per-tenant call ceiling.
const MaxCallsPerMinute = 500

// Config holds Ledger API configuration.
type Config struct {
	BaseURL      string
	RealmID      string // tenant's company realm in the remote system
	ClientID     string
	ClientSecret string
	TokenURL     string
	RefreshToken string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: ledger base URL", common.ErrMissingConfig)
	}
	if c.RealmID == "" {
		return fmt.Errorf("%w: ledger realm ID", common.ErrMissingConfig)
	}
	if c.ClientID == "" {
		return fmt.Errorf("%w: ledger client ID", common.ErrMissingConfig)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: ledger client secret", common.ErrMissingConfig)
	}
	if c.RefreshToken == "" {
		return fmt.Errorf("%w: ledger refresh token", common.ErrMissingConfig)
	}
	return nil
}

// HTTPClient implements Client against the Ledger REST API.
type HTTPClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	realmID    string
}

// NewClient creates a Ledger API client. The underlying HTTP client
// refreshes its OAuth2 access token automatically.
func NewClient(ctx context.Context, cfg Config) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/oauth2/token"
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: tokenURL,
		},
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}

	return &HTTPClient{
		httpClient: oauthConfig.Client(ctx, token),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		realmID:    cfg.RealmID,
		logger:     slog.Default().With("component", "remote"),
	}, nil
}

// entityPayload is the wire shape of a Ledger entity.
type entityPayload struct {
	ID        string `json:"id"`
	SyncToken string `json:"sync_token"`
	Account   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"account"`
}

// GetEntity reads one remote entity with its current sync token.
func (c *HTTPClient) GetEntity(ctx context.Context, kind model.RemoteEntityKind, id string) (*Entity, error) {
	if id == "" {
		return nil, fmt.Errorf("entity id is required")
	}

	endpoint := fmt.Sprintf("%s/v1/companies/%s/%s/%s", c.baseURL, c.realmID, kindPath(kind), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload entityPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}

	return &Entity{
		Kind:        kind,
		ID:          payload.ID,
		SyncToken:   payload.SyncToken,
		AccountID:   payload.Account.ID,
		AccountName: payload.Account.Name,
	}, nil
}

// UpdateEntityAccount submits a sparse update that changes only the account
// reference, carrying the sync token from the preceding read.
func (c *HTTPClient) UpdateEntityAccount(ctx context.Context, update AccountUpdate) (*Entity, error) {
	if update.EntityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if update.SyncToken == "" {
		return nil, fmt.Errorf("sync token is required")
	}

	body, err := json.Marshal(map[string]any{
		"sync_token": update.SyncToken,
		"sparse":     true,
		"account": map[string]string{
			"id":   update.AccountID,
			"name": update.AccountName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/companies/%s/%s/%s", c.baseURL, c.realmID, kindPath(update.Kind), url.PathEscape(update.EntityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Submitting sparse account update",
		"entity_kind", update.Kind,
		"entity_id", update.EntityID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload entityPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}

	return &Entity{
		Kind:        update.Kind,
		ID:          payload.ID,
		SyncToken:   payload.SyncToken,
		AccountID:   payload.Account.ID,
		AccountName: payload.Account.Name,
	}, nil
}

// transactionPayload is the wire shape of a Ledger transaction row.
type transactionPayload struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      float64         `json:"amount"`
	VendorName  string          `json:"vendor_name"`
	Description string          `json:"description"`
	AccountName string          `json:"account_name"`
	Raw         json.RawMessage `json:"raw"`
}

// FetchTransactions pulls the tenant's transactions in the date range.
func (c *HTTPClient) FetchTransactions(ctx context.Context, tenantID string, startDate, endDate time.Time) ([]model.Transaction, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	endpoint := fmt.Sprintf("%s/v1/companies/%s/transactions", c.baseURL, c.realmID)
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("start_date", startDate.Format("2006-01-02"))
	q.Set("end_date", endDate.Format("2006-01-02"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Info("Fetching transactions from Ledger API",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload struct {
		Transactions []transactionPayload `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	transactions := make([]model.Transaction, 0, len(payload.Transactions))
	for _, pt := range payload.Transactions {
		txn, mapErr := c.mapTransaction(tenantID, pt)
		if mapErr != nil {
			return nil, mapErr
		}
		transactions = append(transactions, txn)
	}

	c.logger.Info("Fetched transactions", "count", len(transactions))

	return transactions, nil
}

// mapTransaction converts a Ledger API row to our internal model. The local
// id is deterministic so re-syncs upsert rather than duplicate.
func (c *HTTPClient) mapTransaction(tenantID string, pt transactionPayload) (model.Transaction, error) {
	date, err := time.Parse("2006-01-02", pt.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse date %q for transaction %s: %w", pt.Date, pt.ID, err)
	}

	return model.Transaction{
		ID:          tenantID + ":" + pt.ID,
		TenantID:    tenantID,
		RemoteID:    pt.ID,
		Date:        date,
		Amount:      pt.Amount,
		VendorName:  pt.VendorName,
		Description: pt.Description,
		AccountName: pt.AccountName,
		EntityKind:  model.InferEntityKind(pt.Raw),
		RawPayload:  pt.Raw,
	}, nil
}

// kindPath maps an entity kind to its API path segment.
func kindPath(kind model.RemoteEntityKind) string {
	switch kind {
	case model.EntityDeposit:
		return "deposits"
	case model.EntityTransfer:
		return "transfers"
	default:
		return "purchases"
	}
}

// checkStatus maps HTTP error statuses to typed errors.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusConflict:
		msg := readErrorMessage(resp.Body)
		return fmt.Errorf("%w: %s", common.ErrRemoteConflict, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("remote entity: %w", common.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", common.ErrRemoteUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return common.ErrRateLimit
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ledger API error: %d - %s", resp.StatusCode, string(body))
	}
}

// readErrorMessage extracts the error message from an error response body,
// falling back to the raw body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "unreadable error response"
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

// Ensure HTTPClient implements the Client interface.
var _ Client = (*HTTPClient)(nil)
