package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC verification statuses
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// KYCVerification is a document submission awaiting human review.
// There is no automated verification; an operator approves or rejects.
type KYCVerification struct {
	gorm.Model
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Status       string     `gorm:"default:'pending'" json:"status"`
	DocumentID   string     `json:"document_id"`
	DocumentURL  string     `json:"document_url"`
	ProofURL     string     `json:"proof_url"`
	Level        int        `json:"level"` // level granted on approval
	ReviewedBy   string     `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
}
