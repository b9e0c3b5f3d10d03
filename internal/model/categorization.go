package model

import "time"

// Category is the classification assigned to a transaction.
type Category string

// Category constants.
const (
	CategoryBusiness  Category = "business"
	CategoryPersonal  Category = "personal"
	CategoryAmbiguous Category = "ambiguous"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategoryPersonal, CategoryAmbiguous:
		return true
	}
	return false
}

// CategorizationSource indicates how a categorization was produced.
type CategorizationSource string

// Categorization source constants.
const (
	SourceRule  CategorizationSource = "rule"
	SourceModel CategorizationSource = "model"
	SourceUser  CategorizationSource = "user"
)

// Categorization is an append-only fact about a transaction's classification.
// For a given transaction the row with the latest creation timestamp is
// authoritative; history is superseded by inserting, never by mutating.
type Categorization struct {
	CreatedAt     time.Time
	TransactionID string
	TenantID      string
	Category      Category
	Source        CategorizationSource
	Reasoning     string
	ID            int64
	RuleID        *int64 // set when a user rule produced the match
	Confidence    int    // 0-100
}
