package models

import (
	"time"
)

// Audit actions recorded for privileged operations.
const (
	AuditSessionLocked   = "session_locked"
	AuditSessionUnlocked = "session_unlocked"
	AuditDecisionAccept  = "decision_accept"
	AuditDecisionReject  = "decision_reject"
	AuditDecisionMaybe   = "decision_maybe"
	AuditDecisionFinal   = "decision_finalize"
)

// AuditEvent is an append-only record of who did what, written asynchronously.
type AuditEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	ActorID        uint      `gorm:"not null;index" json:"actor_id"`
	Action         string    `gorm:"size:50;not null" json:"action"`
	Subject        string    `gorm:"size:100" json:"subject"` // e.g. "session:12", "applicant_round:7"
	CreatedAt      time.Time `json:"created_at"`
}
