package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sablefin/sable/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrEmptySlice            = errors.New("slice cannot be empty")
	ErrInvalidTransaction    = errors.New("invalid transaction")
	ErrInvalidCategorization = errors.New("invalid categorization")
	ErrInvalidRule           = errors.New("invalid user rule")
	ErrInvalidMapping        = errors.New("invalid account mapping")
	ErrInvalidAuditEntry     = errors.New("invalid audit entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.TenantID == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidTransaction)
	}
	if txn.RemoteID == "" {
		return fmt.Errorf("%w: missing remote ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateCategorization validates a categorization row before insert.
func validateCategorization(c *model.Categorization) error {
	if c == nil {
		return fmt.Errorf("%w: categorization", ErrNilParameter)
	}
	if c.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction ID", ErrInvalidCategorization)
	}
	if c.TenantID == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidCategorization)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCategorization, c.Category)
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidCategorization)
	}

	switch c.Source {
	case model.SourceRule, model.SourceModel, model.SourceUser:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidCategorization, c.Source)
	}

	return nil
}

// validateUserRule validates a user rule before insert.
func validateUserRule(rule *model.UserRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if rule.TenantID == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.MatchValue) == "" {
		return fmt.Errorf("%w: missing match value", ErrInvalidRule)
	}
	if !rule.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.Category)
	}

	switch rule.MatchType {
	case model.MatchVendor, model.MatchDescription, model.MatchAmountRange:
	default:
		return fmt.Errorf("%w: unknown match type %q", ErrInvalidRule, rule.MatchType)
	}

	return nil
}

// validateAccountMapping validates an account mapping before insert.
func validateAccountMapping(mapping *model.AccountMapping) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping", ErrNilParameter)
	}
	if mapping.TenantID == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidMapping)
	}
	if !mapping.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMapping, mapping.Category)
	}
	if mapping.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidMapping)
	}
	return nil
}

// validateAuditEntry validates an audit entry before insert.
func validateAuditEntry(entry *model.AuditEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.TenantID == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidAuditEntry)
	}
	if entry.Action == "" {
		return fmt.Errorf("%w: missing action", ErrInvalidAuditEntry)
	}
	return nil
}
