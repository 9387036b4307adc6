package models

import "gorm.io/gorm"

// Asset is a tradable cryptocurrency quoted in BRL.
type Asset struct {
	gorm.Model
	Symbol       string  `gorm:"uniqueIndex;not null" json:"symbol"`
	Name         string  `gorm:"not null" json:"name"`
	Enabled      bool    `gorm:"default:true" json:"enabled"`
	BuySpreadPct float64 `gorm:"default:1.5" json:"buy_spread_pct"`
	// ManualPrice pins the quoted price when the feed is down or an
	// operator wants to trade off-feed. Zero means "use the feed".
	ManualPrice float64 `gorm:"default:0" json:"manual_price"`
	FeedSymbol  string  `json:"feed_symbol"` // identifier at the upstream price source
}
