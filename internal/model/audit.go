package model

import "time"

// AuditEntryID is the backend-assigned identifier of an audit entry. Entries
// are ordered by id, which is their insertion order.
type AuditEntryID int64

// AuditAction tags the kind of mutation an audit entry records
type AuditAction string

const (
	ActionPlayerCreate AuditAction = "player.create"
	ActionPlayerEdit   AuditAction = "player.edit"
	ActionPlayerDelete AuditAction = "player.delete"
	ActionMatchCreate  AuditAction = "match.create"
	ActionMatchDelete  AuditAction = "match.delete"
)

// AuditEntry is one append-only record of a mutating operation
type AuditEntry struct {
	ID        AuditEntryID `json:"id"`
	Entry     string       `json:"entry"`
	Action    AuditAction  `json:"action"`
	UniqueID  int64        `json:"unique_id"` // id of the affected player or match
	Timestamp time.Time    `json:"timestamp"`
}
