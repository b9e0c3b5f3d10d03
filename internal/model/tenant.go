package model

import "time"

// Tenant is the top-level organizational scope owning transactions, rules,
// and configuration.
type Tenant struct {
	CreatedAt    time.Time
	ID           string
	Name         string
	IndustrySlug string // selects the named industry template
}

// AccountMapping binds one category to exactly one remote account. Used only
// by the write-back subsystem.
type AccountMapping struct {
	TenantID    string
	Category    Category
	AccountID   string // remote account id
	AccountName string // remote account display name
	ID          int64
}
