package model

import "time"

// RuleMatchType selects which transaction attribute a user rule matches on.
type RuleMatchType string

// Rule match type constants.
const (
	MatchVendor      RuleMatchType = "vendor"
	MatchDescription RuleMatchType = "description"
	MatchAmountRange RuleMatchType = "amount_range"
)

// UserRule is a tenant-defined categorization override. Rules evaluate
// before all built-in matching, in ascending priority order; ties break on
// insertion order (lowest id first).
type UserRule struct {
	CreatedAt  time.Time
	TenantID   string
	MatchType  RuleMatchType
	MatchValue string // substring, or "min-max" for amount_range
	Category   Category
	ID         int64
	Priority   int // lower evaluates first
}
