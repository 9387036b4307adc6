package pricing

// Operation selects which side of the book a quote is for.
type Operation string

const (
	OpBuy  Operation = "buy"
	OpSell Operation = "sell"
)

// Valid reports whether the operation is one of the known values.
func (o Operation) Valid() bool {
	return o == OpBuy || o == OpSell
}

// FeeTier maps a half-open fiat amount range [Min, Max) to a
// proportional fee rate. Max == 0 marks the tier as open-ended, which
// is only allowed on the last tier of a table.
type FeeTier struct {
	Min  float64
	Max  float64
	Rate float64 // fraction, 0 < Rate < 1
}

// Unbounded reports whether the tier has no upper limit.
func (t FeeTier) Unbounded() bool {
	return t.Max == 0
}

// Contains reports whether amount falls inside [Min, Max).
func (t FeeTier) Contains(amount float64) bool {
	return amount >= t.Min && (t.Unbounded() || amount < t.Max)
}

// RatePct returns the tier rate expressed in percent.
func (t FeeTier) RatePct() float64 {
	return t.Rate * 100
}

// TierTable is an ordered, validated list of fee tiers. Build one with
// NewTierTable; a zero value is not usable.
type TierTable struct {
	tiers []FeeTier
}

// Tiers returns a copy of the underlying tiers.
func (tt TierTable) Tiers() []FeeTier {
	out := make([]FeeTier, len(tt.tiers))
	copy(out, tt.tiers)
	return out
}

// Len returns the number of tiers.
func (tt TierTable) Len() int { return len(tt.tiers) }

// OverrideKind discriminates the two admin price adjustments.
type OverrideKind string

const (
	OverrideFixed   OverrideKind = "fixed"      // additive fiat delta
	OverridePercent OverrideKind = "percentage" // multiplicative, value in percent
)

// Override is an admin-set adjustment applied to an asset's base price
// before any spread. Value may be negative for either kind.
type Override struct {
	Kind  OverrideKind
	Value float64
}

// Quote is the result of pricing an operation.
type Quote struct {
	UnitPrice        float64 `json:"unit_price"`
	CryptoAmount     float64 `json:"crypto_amount"`
	FeeAmount        float64 `json:"fee_amount"`
	TotalAmount      float64 `json:"total_amount"`
	EffectiveRatePct float64 `json:"effective_rate_pct"`
}
