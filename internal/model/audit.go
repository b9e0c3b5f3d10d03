package model

import "time"

// AuditEntry is one row in the append-only audit log. The write-back
// executor records one entry per successful item and one summary entry per
// batch.
type AuditEntry struct {
	CreatedAt  time.Time
	ID         string // uuid
	TenantID   string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValue   string
	NewValue   string
}

// Audit action constants.
const (
	AuditActionWriteBack        = "writeback.account_updated"
	AuditActionWriteBackSummary = "writeback.batch_completed"
)
