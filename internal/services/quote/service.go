// Package quote composes the price feed, the fee configuration, and
// the pricing engine into the quote the storefront and order flow use.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balcao/internal/repositories"
	"balcao/internal/services/feeconfig"
	"balcao/internal/services/pricefeed"
	"balcao/internal/services/pricing"
)

var ErrAssetDisabled = errors.New("asset is not enabled for trading")

type Request struct {
	Symbol    string
	Operation pricing.Operation
	Amount    float64 // fiat amount in BRL
}

// Result is a priced quote plus the context it was computed from.
type Result struct {
	Symbol      string        `json:"symbol"`
	Operation   string        `json:"operation"`
	Amount      float64       `json:"amount"`
	Quote       pricing.Quote `json:"quote"`
	TierMin     float64       `json:"tier_min"`
	TierMax     float64       `json:"tier_max"`
	TierRatePct float64       `json:"tier_rate_pct"`
	PriceSource string        `json:"price_source"`
	PriceAt     time.Time     `json:"price_at"`
	BasePrice   float64       `json:"base_price"`
}

// AssetPrice is a storefront listing entry.
type AssetPrice struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price,omitempty"`
	PriceAt   time.Time `json:"price_at,omitempty"`
	Available bool      `json:"available"`
}

type Service interface {
	GetQuote(ctx context.Context, req Request) (*Result, error)
	ListAssets(ctx context.Context) ([]AssetPrice, error)
}

type service struct {
	assets repositories.AssetRepository
	feed   pricefeed.Service
	fees   feeconfig.Service
}

func NewService(assets repositories.AssetRepository, feed pricefeed.Service, fees feeconfig.Service) Service {
	if assets == nil {
		panic("asset repo is required")
	}
	if feed == nil {
		panic("price feed is required")
	}
	if fees == nil {
		panic("fee config is required")
	}
	return &service{assets: assets, feed: feed, fees: fees}
}

// GetQuote prices a buy or sell. The spread source differs by side:
// a buy applies the asset's buy spread to the exchange rate, a sell
// charges the volume tier's rate against the proceeds. The tier is
// reported for both so the UI can show the applicable fee band.
func (s *service) GetQuote(ctx context.Context, req Request) (*Result, error) {
	if !req.Operation.Valid() {
		return nil, fmt.Errorf("%w: %q", pricing.ErrInvalidOperation, req.Operation)
	}

	asset, err := s.assets.GetBySymbol(req.Symbol)
	if err != nil {
		return nil, err
	}
	if !asset.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrAssetDisabled, asset.Symbol)
	}

	snap, err := s.feed.Latest(ctx, asset)
	if err != nil {
		return nil, err
	}

	table, err := s.fees.TierTable(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := table.SelectTier(req.Amount)
	if err != nil {
		return nil, err
	}

	override, err := s.fees.Override(ctx, asset.Symbol)
	if err != nil {
		return nil, err
	}
	unitPrice, err := pricing.ApplyOverride(snap.UnitPrice, override)
	if err != nil {
		return nil, err
	}

	spreadPct := asset.BuySpreadPct
	if req.Operation == pricing.OpSell {
		spreadPct = tier.RatePct()
	}

	q, err := pricing.Compute(req.Amount, req.Operation, unitPrice, spreadPct)
	if err != nil {
		return nil, err
	}

	return &Result{
		Symbol:      asset.Symbol,
		Operation:   string(req.Operation),
		Amount:      req.Amount,
		Quote:       q,
		TierMin:     tier.Min,
		TierMax:     tier.Max,
		TierRatePct: tier.RatePct(),
		PriceSource: snap.Source,
		PriceAt:     snap.Timestamp,
		BasePrice:   snap.UnitPrice,
	}, nil
}

// ListAssets returns all enabled assets with their latest prices.
// Assets without a usable snapshot are listed as unavailable rather
// than omitted.
func (s *service) ListAssets(ctx context.Context) ([]AssetPrice, error) {
	assets, err := s.assets.ListEnabled()
	if err != nil {
		return nil, err
	}

	out := make([]AssetPrice, 0, len(assets))
	for i := range assets {
		entry := AssetPrice{Symbol: assets[i].Symbol, Name: assets[i].Name}
		if snap, err := s.feed.Latest(ctx, &assets[i]); err == nil {
			entry.UnitPrice = snap.UnitPrice
			entry.PriceAt = snap.Timestamp
			entry.Available = true
		}
		out = append(out, entry)
	}
	return out, nil
}
