package models

import "gorm.io/gorm"

// FeeTierRow is the persisted form of a volume fee tier. MaxAmount 0
// marks the open-ended last tier, mirroring pricing.FeeTier.
type FeeTierRow struct {
	gorm.Model
	MinAmount  float64 `gorm:"not null" json:"min_amount"`
	MaxAmount  float64 `gorm:"not null;default:0" json:"max_amount"`
	Rate       float64 `gorm:"not null" json:"rate"`
	Position   int     `gorm:"not null" json:"position"`
	ModifiedBy string  `json:"modified_by"`
}

// SpreadOverrideRow is the persisted per-asset price override. At most
// one row per asset; setting a new override replaces the prior value.
type SpreadOverrideRow struct {
	gorm.Model
	AssetSymbol string  `gorm:"uniqueIndex;not null" json:"asset_symbol"`
	Kind        string  `gorm:"not null" json:"kind"` // "fixed" | "percentage"
	Value       float64 `gorm:"not null" json:"value"`
	ModifiedBy  string  `json:"modified_by"`
}

// FeeConfigAudit records every mutation of the fee configuration:
// who changed what, with before/after snapshots.
type FeeConfigAudit struct {
	gorm.Model
	Actor    string `gorm:"not null" json:"actor"`
	Action   string `gorm:"not null" json:"action"`
	Entity   string `gorm:"not null" json:"entity"` // "tier_table" | "override"
	Asset    string `json:"asset,omitempty"`
	Previous JSON   `gorm:"type:jsonb" json:"previous"`
	Current  JSON   `gorm:"type:jsonb" json:"current"`
}
