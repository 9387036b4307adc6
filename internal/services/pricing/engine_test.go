package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTiers() []FeeTier {
	return []FeeTier{
		{Min: 0, Max: 1000, Rate: 0.035},
		{Min: 1000, Max: 5000, Rate: 0.030},
		{Min: 5000, Max: 50000, Rate: 0.025},
		{Min: 50000, Max: 0, Rate: 0.020},
	}
}

func TestNewTierTable(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []FeeTier
		wantErr error
	}{
		{
			name:  "valid table",
			tiers: defaultTiers(),
		},
		{
			name:    "empty table",
			tiers:   nil,
			wantErr: ErrEmptyTierTable,
		},
		{
			name: "first tier not at zero",
			tiers: []FeeTier{
				{Min: 100, Max: 1000, Rate: 0.03},
			},
			wantErr: ErrInvalidTierBound,
		},
		{
			name: "gap between tiers",
			tiers: []FeeTier{
				{Min: 0, Max: 1000, Rate: 0.035},
				{Min: 2000, Max: 0, Rate: 0.030},
			},
			wantErr: ErrTierGap,
		},
		{
			name: "overlapping tiers",
			tiers: []FeeTier{
				{Min: 0, Max: 1000, Rate: 0.035},
				{Min: 500, Max: 0, Rate: 0.030},
			},
			wantErr: ErrTierOverlap,
		},
		{
			name: "rate increases with volume",
			tiers: []FeeTier{
				{Min: 0, Max: 1000, Rate: 0.030},
				{Min: 1000, Max: 0, Rate: 0.035},
			},
			wantErr: ErrNonMonotonicRate,
		},
		{
			name: "rate out of range",
			tiers: []FeeTier{
				{Min: 0, Max: 0, Rate: 1.2},
			},
			wantErr: ErrInvalidRate,
		},
		{
			name: "open-ended tier not last",
			tiers: []FeeTier{
				{Min: 0, Max: 0, Rate: 0.035},
				{Min: 1000, Max: 0, Rate: 0.030},
			},
			wantErr: ErrInvalidTierBound,
		},
		{
			name: "inverted bounds",
			tiers: []FeeTier{
				{Min: 0, Max: 1000, Rate: 0.035},
				{Min: 1000, Max: 900, Rate: 0.030},
			},
			wantErr: ErrInvalidTierBound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTierTable(tt.tiers)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.tiers), table.Len())
		})
	}
}

func TestSelectTier(t *testing.T) {
	table, err := NewTierTable(defaultTiers())
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   float64
		wantRate float64
	}{
		{"zero amount lands in first tier", 0, 0.035},
		{"mid first tier", 999.99, 0.035},
		// Boundary is half-open: exactly 1000 belongs to the second tier.
		{"exact boundary selects higher tier", 1000, 0.030},
		{"mid second tier", 4999.99, 0.030},
		{"exact second boundary", 5000, 0.025},
		{"open-ended last tier", 50000, 0.020},
		{"far past last tier", 10_000_000, 0.020},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := table.SelectTier(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, tier.Rate)
			assert.LessOrEqual(t, tier.Min, tt.amount)
			if !tier.Unbounded() {
				assert.Less(t, tt.amount, tier.Max)
			}
		})
	}

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := table.SelectTier(-1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("non-finite amount rejected", func(t *testing.T) {
		_, err := table.SelectTier(math.NaN())
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("empty table rejected", func(t *testing.T) {
		_, err := TierTable{}.SelectTier(100)
		assert.ErrorIs(t, err, ErrEmptyTierTable)
	})
}

func TestTierRatesNeverIncrease(t *testing.T) {
	table, err := NewTierTable(defaultTiers())
	require.NoError(t, err)

	tiers := table.Tiers()
	for i := 1; i < len(tiers); i++ {
		assert.GreaterOrEqual(t, tiers[i-1].Rate, tiers[i].Rate)
	}
}

func TestApplyOverride(t *testing.T) {
	t.Run("nil override is identity", func(t *testing.T) {
		price, err := ApplyOverride(5.02, nil)
		require.NoError(t, err)
		assert.Equal(t, 5.02, price)
	})

	t.Run("fixed override on USDT", func(t *testing.T) {
		price, err := ApplyOverride(5.02, &Override{Kind: OverrideFixed, Value: 0.02})
		require.NoError(t, err)
		assert.InDelta(t, 5.04, price, 1e-9)
	})

	t.Run("negative fixed override", func(t *testing.T) {
		price, err := ApplyOverride(5.02, &Override{Kind: OverrideFixed, Value: -0.02})
		require.NoError(t, err)
		assert.InDelta(t, 5.00, price, 1e-9)
	})

	t.Run("percentage override", func(t *testing.T) {
		price, err := ApplyOverride(100, &Override{Kind: OverridePercent, Value: 2.5})
		require.NoError(t, err)
		assert.InDelta(t, 102.5, price, 1e-9)
	})

	t.Run("override driving price non-positive is rejected", func(t *testing.T) {
		_, err := ApplyOverride(5.02, &Override{Kind: OverrideFixed, Value: -10})
		assert.ErrorIs(t, err, ErrInvalidBasePrice)

		_, err = ApplyOverride(100, &Override{Kind: OverridePercent, Value: -100})
		assert.ErrorIs(t, err, ErrInvalidBasePrice)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := ApplyOverride(100, &Override{Kind: "flat", Value: 1})
		assert.ErrorIs(t, err, ErrUnknownOverrideKind)
	})

	t.Run("non-positive base price is rejected", func(t *testing.T) {
		_, err := ApplyOverride(0, nil)
		assert.ErrorIs(t, err, ErrInvalidBasePrice)
		_, err = ApplyOverride(-10, nil)
		assert.ErrorIs(t, err, ErrInvalidBasePrice)
	})
}

func TestComputeBuy(t *testing.T) {
	// Buy R$ 1.000,00 of BTC at base price R$ 160.234,50 with 1.5% spread.
	q, err := Compute(1000, OpBuy, 160234.50, 1.5)
	require.NoError(t, err)

	assert.InDelta(t, 160234.50*1.015, q.UnitPrice, 1e-6) // 162638.0175
	assert.InDelta(t, 1000/(160234.50*1.015), q.CryptoAmount, 1e-10)
	// Buyer pays exactly the stated amount; the fee is inside the rate.
	assert.Equal(t, 1000.0, q.TotalAmount)
	assert.InDelta(t, 1000-1000/1.015, q.FeeAmount, 1e-9)
	assert.Equal(t, 1.5, q.EffectiveRatePct)
}

func TestComputeSell(t *testing.T) {
	// Sell R$ 1.000,00 at the 3.5% tier rate.
	q, err := Compute(1000, OpSell, 160234.50, 3.5)
	require.NoError(t, err)

	assert.InDelta(t, 35.00, q.FeeAmount, 1e-9)
	assert.InDelta(t, 965.00, q.TotalAmount, 1e-9)
	// Sell does not touch the exchange rate.
	assert.Equal(t, 160234.50, q.UnitPrice)
	assert.InDelta(t, 1000/160234.50, q.CryptoAmount, 1e-12)
}

func TestBuySellAsymmetry(t *testing.T) {
	buy, err := Compute(1000, OpBuy, 100, 2)
	require.NoError(t, err)
	sell, err := Compute(1000, OpSell, 100, 2)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, buy.TotalAmount)
	assert.Less(t, sell.TotalAmount, 1000.0)
	assert.NotEqual(t, buy.TotalAmount, sell.TotalAmount)
}

func TestComputeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		op      Operation
		price   float64
		spread  float64
		wantErr error
	}{
		{"negative amount", -1, OpBuy, 100, 1, ErrInvalidAmount},
		{"NaN amount", math.NaN(), OpBuy, 100, 1, ErrInvalidAmount},
		{"infinite amount", math.Inf(1), OpSell, 100, 1, ErrInvalidAmount},
		{"zero price", 100, OpBuy, 0, 1, ErrInvalidBasePrice},
		{"negative price", 100, OpSell, -5, 1, ErrInvalidBasePrice},
		{"NaN price", 100, OpBuy, math.NaN(), 1, ErrInvalidBasePrice},
		{"negative spread", 100, OpBuy, 100, -1, ErrInvalidRate},
		{"unknown operation", 100, Operation("swap"), 100, 1, ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.amount, tt.op, tt.price, tt.spread)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeZeroAmount(t *testing.T) {
	q, err := Compute(0, OpBuy, 100, 1.5)
	require.NoError(t, err)
	assert.Zero(t, q.CryptoAmount)
	assert.Zero(t, q.FeeAmount)
	assert.Zero(t, q.TotalAmount)
}
