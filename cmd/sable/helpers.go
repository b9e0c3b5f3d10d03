package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/sablefin/sable/internal/common"
	"github.com/sablefin/sable/internal/config"
	"github.com/sablefin/sable/internal/remote"
	"github.com/sablefin/sable/internal/storage"
)

// openStorage opens the configured database.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine database path: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// requireTenant returns the tenant id from flags/config or an error.
func requireTenant() (string, error) {
	tenantID := viper.GetString("tenant")
	if tenantID == "" {
		return "", common.NewUserError("tenant id is required (--tenant or SABLE_TENANT)", nil)
	}
	return tenantID, nil
}

// newLedgerClient builds the remote client from configuration.
func newLedgerClient(ctx context.Context) (*remote.HTTPClient, error) {
	cfg := remote.Config{
		BaseURL:      viper.GetString("ledger.base_url"),
		RealmID:      viper.GetString("ledger.realm_id"),
		ClientID:     viper.GetString("ledger.client_id"),
		ClientSecret: viper.GetString("ledger.client_secret"),
		TokenURL:     viper.GetString("ledger.token_url"),
		RefreshToken: viper.GetString("ledger.refresh_token"),
	}
	client, err := remote.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}
	return client, nil
}

// printf writes formatted output to stdout; command output goes to stdout,
// logs go to stderr.
func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
