package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending         = "pending"
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPaid            = "paid"
	OrderStatusCompleted       = "completed"
	OrderStatusCancelled       = "cancelled"
	OrderStatusDisputed        = "disputed"
)

// Order is a priced P2P buy or sell locked against a quote. The quote
// fields are copied onto the row at creation so later fee table or
// price changes never reprice an open order.
type Order struct {
	gorm.Model
	Reference    string     `gorm:"uniqueIndex;not null" json:"reference"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	AssetSymbol  string     `gorm:"not null" json:"asset_symbol"`
	Operation    string     `gorm:"not null" json:"operation"` // "buy" | "sell"
	FiatAmount   float64    `gorm:"not null" json:"fiat_amount"`
	CryptoAmount float64    `gorm:"not null" json:"crypto_amount"`
	UnitPrice    float64    `gorm:"not null" json:"unit_price"`
	FeeAmount    float64    `gorm:"not null" json:"fee_amount"`
	TotalAmount  float64    `gorm:"not null" json:"total_amount"`
	RatePct      float64    `json:"rate_pct"`
	Status       string     `gorm:"not null;default:'pending'" json:"status"`
	StatusReason string     `json:"status_reason"`
	PixKey       string     `json:"pix_key"`
	PriceAt      time.Time  `json:"price_at"` // timestamp of the price snapshot used
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Metadata     JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
}
