package pricing

import (
	"fmt"
	"math"
)

// NewTierTable validates tiers and returns a usable table. Tiers must
// be ordered by ascending Min, start at 0, be contiguous with no
// overlap, carry rates in (0, 1) that never increase with volume, and
// only the last tier may be open-ended.
func NewTierTable(tiers []FeeTier) (TierTable, error) {
	if len(tiers) == 0 {
		return TierTable{}, ErrEmptyTierTable
	}
	if tiers[0].Min != 0 {
		return TierTable{}, fmt.Errorf("%w: first tier must start at 0, got %v", ErrInvalidTierBound, tiers[0].Min)
	}

	for i, t := range tiers {
		if math.IsNaN(t.Min) || math.IsInf(t.Min, 0) || math.IsNaN(t.Max) || math.IsInf(t.Max, 0) {
			return TierTable{}, fmt.Errorf("%w: tier %d has non-finite bounds", ErrInvalidTierBound, i)
		}
		if t.Rate <= 0 || t.Rate >= 1 || math.IsNaN(t.Rate) {
			return TierTable{}, fmt.Errorf("%w: tier %d rate %v", ErrInvalidRate, i, t.Rate)
		}

		last := i == len(tiers)-1
		if t.Unbounded() {
			if !last {
				return TierTable{}, fmt.Errorf("%w: tier %d is open-ended but not last", ErrInvalidTierBound, i)
			}
		} else if t.Max <= t.Min {
			return TierTable{}, fmt.Errorf("%w: tier %d range [%v, %v)", ErrInvalidTierBound, i, t.Min, t.Max)
		}

		if i > 0 {
			prev := tiers[i-1]
			switch {
			case t.Min < prev.Max:
				return TierTable{}, fmt.Errorf("%w: tier %d starts at %v before previous max %v", ErrTierOverlap, i, t.Min, prev.Max)
			case t.Min > prev.Max:
				return TierTable{}, fmt.Errorf("%w: tier %d starts at %v after previous max %v", ErrTierGap, i, t.Min, prev.Max)
			}
			if t.Rate > prev.Rate {
				return TierTable{}, fmt.Errorf("%w: tier %d rate %v exceeds tier %d rate %v", ErrNonMonotonicRate, i, t.Rate, i-1, prev.Rate)
			}
		}
	}

	out := make([]FeeTier, len(tiers))
	copy(out, tiers)
	return TierTable{tiers: out}, nil
}

// SelectTier returns the tier whose [Min, Max) range contains amount.
// The boundary convention is half-open: an amount exactly at a tier
// boundary belongs to the higher tier. Amounts past the last tier's
// max fall into the last tier.
func (tt TierTable) SelectTier(amount float64) (FeeTier, error) {
	if len(tt.tiers) == 0 {
		return FeeTier{}, ErrEmptyTierTable
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return FeeTier{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	for _, t := range tt.tiers {
		if t.Contains(amount) {
			return t, nil
		}
	}
	return tt.tiers[len(tt.tiers)-1], nil
}

// ApplyOverride adjusts basePrice by an optional admin override. A nil
// override leaves the price untouched. The adjusted price must remain
// positive; an override that drives it to zero or below is a
// configuration fault.
func ApplyOverride(basePrice float64, override *Override) (float64, error) {
	if basePrice <= 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBasePrice, basePrice)
	}
	if override == nil {
		return basePrice, nil
	}

	var price float64
	switch override.Kind {
	case OverrideFixed:
		price = basePrice + override.Value
	case OverridePercent:
		price = basePrice * (1 + override.Value/100)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOverrideKind, override.Kind)
	}

	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: override %s %v on %v yields %v", ErrInvalidBasePrice, override.Kind, override.Value, basePrice, price)
	}
	return price, nil
}

// Compute prices an operation at the given post-override unit price and
// spread percentage.
//
// Buy embeds the spread in the rate: the buyer pays exactly amount and
// the fee is the part of it absorbed by the inflated price. Sell leaves
// the rate untouched and deducts the fee from the fiat proceeds. The
// two paths are deliberately different and must stay that way.
func Compute(amount float64, op Operation, unitPrice float64, spreadPct float64) (Quote, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quote{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if unitPrice <= 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return Quote{}, fmt.Errorf("%w: %v", ErrInvalidBasePrice, unitPrice)
	}
	if spreadPct < 0 || math.IsNaN(spreadPct) || math.IsInf(spreadPct, 0) {
		return Quote{}, fmt.Errorf("%w: spread %v%%", ErrInvalidRate, spreadPct)
	}

	var q Quote
	switch op {
	case OpBuy:
		factor := 1 + spreadPct/100
		q = Quote{
			UnitPrice:        unitPrice * factor,
			CryptoAmount:     amount / (unitPrice * factor),
			FeeAmount:        amount - amount/factor,
			TotalAmount:      amount,
			EffectiveRatePct: spreadPct,
		}
	case OpSell:
		fee := amount * spreadPct / 100
		q = Quote{
			UnitPrice:        unitPrice,
			CryptoAmount:     amount / unitPrice,
			FeeAmount:        fee,
			TotalAmount:      amount - fee,
			EffectiveRatePct: spreadPct,
		}
	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}

	if !finite(q.UnitPrice) || !finite(q.CryptoAmount) || !finite(q.FeeAmount) || !finite(q.TotalAmount) {
		return Quote{}, fmt.Errorf("%w: quote is not finite", ErrInvalidBasePrice)
	}
	return q, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
