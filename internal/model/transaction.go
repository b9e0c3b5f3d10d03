// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"time"
)

// RemoteEntityKind identifies the shape of the remote accounting entity that
// backs a transaction. It is determined once at ingestion time and stored,
// so write-back never has to sniff the raw payload.
type RemoteEntityKind string

// Remote entity kind constants.
const (
	EntityPurchase RemoteEntityKind = "purchase"
	EntityDeposit  RemoteEntityKind = "deposit"
	EntityTransfer RemoteEntityKind = "transfer"
)

// Transaction is an immutable financial transaction synced from the remote
// accounting system. Rows are created and updated only by the sync process.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	ID          string
	TenantID    string
	RemoteID    string // transaction id in the remote accounting system
	VendorName  string
	Description string
	AccountName string // current remote account label, cached locally
	EntityKind  RemoteEntityKind
	RawPayload  json.RawMessage
	Amount      float64 // signed; negative for credits
}

// InferEntityKind determines the remote entity kind from the raw payload
// shape: a deposit field marks a deposit, paired from/to account fields mark
// a transfer, and anything else is a generic purchase.
func InferEntityKind(raw json.RawMessage) RemoteEntityKind {
	if len(raw) == 0 {
		return EntityPurchase
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return EntityPurchase
	}

	if _, ok := fields["deposit"]; ok {
		return EntityDeposit
	}

	_, hasFrom := fields["from_account"]
	_, hasTo := fields["to_account"]
	if hasFrom && hasTo {
		return EntityTransfer
	}

	return EntityPurchase
}
