package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds
const (
	NotificationKindBroadcast = "broadcast"
	NotificationKindOrder     = "order"
	NotificationKindKYC       = "kyc"
)

type Notification struct {
	gorm.Model
	UserID uint       `gorm:"not null;index" json:"user_id"`
	Kind   string     `gorm:"not null" json:"kind"`
	Title  string     `gorm:"not null" json:"title"`
	Body   string     `json:"body"`
	ReadAt *time.Time `json:"read_at,omitempty"`
	SentBy string     `json:"sent_by,omitempty"`
}
