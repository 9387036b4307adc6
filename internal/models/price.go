package models

import "time"

// PriceSnapshot is the latest known BRL unit price for an asset.
// Immutable once taken; a newer snapshot supersedes it wholesale.
type PriceSnapshot struct {
	Symbol    string    `json:"symbol"`
	UnitPrice float64   `json:"unit_price"`
	Source    string    `json:"source"` // "feed" | "manual"
	Timestamp time.Time `json:"timestamp"`
}

// Age returns how stale the snapshot is relative to now.
func (p PriceSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(p.Timestamp)
}
