package quote

import (
	"context"
	"testing"
	"time"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/pricefeed"
	"balcao/internal/services/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) List() ([]models.Asset, error) {
	args := m.Called()
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetRepo) ListEnabled() ([]models.Asset, error) {
	args := m.Called()
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetRepo) GetBySymbol(symbol string) (*models.Asset, error) {
	args := m.Called(symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepo) Create(a *models.Asset) error { return m.Called(a).Error(0) }
func (m *MockAssetRepo) Update(a *models.Asset) error { return m.Called(a).Error(0) }

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Latest(ctx context.Context, asset *models.Asset) (models.PriceSnapshot, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(models.PriceSnapshot), args.Error(1)
}

func (m *MockFeed) Refresh(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockFeed) Run(ctx context.Context)           { m.Called(ctx) }

type MockFees struct {
	mock.Mock
}

func (m *MockFees) TierTable(ctx context.Context) (pricing.TierTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(pricing.TierTable), args.Error(1)
}

func (m *MockFees) ReplaceTierTable(ctx context.Context, tiers []pricing.FeeTier, actor string) error {
	return m.Called(ctx, tiers, actor).Error(0)
}

func (m *MockFees) Override(ctx context.Context, assetSymbol string) (*pricing.Override, error) {
	args := m.Called(ctx, assetSymbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Override), args.Error(1)
}

func (m *MockFees) SetOverride(ctx context.Context, assetSymbol string, ov pricing.Override, actor string) error {
	return m.Called(ctx, assetSymbol, ov, actor).Error(0)
}

func (m *MockFees) ClearOverride(ctx context.Context, assetSymbol string, actor string) error {
	return m.Called(ctx, assetSymbol, actor).Error(0)
}

func (m *MockFees) AuditTrail(ctx context.Context, limit, offset int) ([]models.FeeConfigAudit, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.FeeConfigAudit), args.Get(1).(int64), args.Error(2)
}

func testTable(t *testing.T) pricing.TierTable {
	t.Helper()
	table, err := pricing.NewTierTable([]pricing.FeeTier{
		{Min: 0, Max: 1000, Rate: 0.035},
		{Min: 1000, Max: 5000, Rate: 0.030},
		{Min: 5000, Max: 0, Rate: 0.025},
	})
	require.NoError(t, err)
	return table
}

func btcAsset() *models.Asset {
	return &models.Asset{Symbol: "BTC", Name: "Bitcoin", Enabled: true, BuySpreadPct: 1.5}
}

func setupMocks(t *testing.T, asset *models.Asset, price float64, override *pricing.Override) (*MockAssetRepo, *MockFeed, *MockFees) {
	t.Helper()
	assets := new(MockAssetRepo)
	feed := new(MockFeed)
	fees := new(MockFees)

	assets.On("GetBySymbol", asset.Symbol).Return(asset, nil)
	feed.On("Latest", mock.Anything, asset).Return(models.PriceSnapshot{
		Symbol:    asset.Symbol,
		UnitPrice: price,
		Source:    "feed",
		Timestamp: time.Now(),
	}, nil)
	fees.On("TierTable", mock.Anything).Return(testTable(t), nil)
	fees.On("Override", mock.Anything, asset.Symbol).Return(override, nil)

	return assets, feed, fees
}

func TestGetQuoteBuy(t *testing.T) {
	assets, feed, fees := setupMocks(t, btcAsset(), 160234.50, nil)
	svc := NewService(assets, feed, fees)

	res, err := svc.GetQuote(context.Background(), Request{
		Symbol:    "BTC",
		Operation: pricing.OpBuy,
		Amount:    1000,
	})
	require.NoError(t, err)

	// Buy applies the asset buy spread to the rate; the buyer pays the
	// stated amount.
	assert.InDelta(t, 160234.50*1.015, res.Quote.UnitPrice, 1e-6) // 162638.0175
	assert.InDelta(t, 1000/(160234.50*1.015), res.Quote.CryptoAmount, 1e-10)
	assert.Equal(t, 1000.0, res.Quote.TotalAmount)
	assert.Equal(t, 1.5, res.Quote.EffectiveRatePct)
	// The volume tier is still reported; 1000 sits in the second band.
	assert.Equal(t, 3.0, res.TierRatePct)
}

func TestGetQuoteSell(t *testing.T) {
	assets, feed, fees := setupMocks(t, btcAsset(), 160234.50, nil)
	svc := NewService(assets, feed, fees)

	res, err := svc.GetQuote(context.Background(), Request{
		Symbol:    "BTC",
		Operation: pricing.OpSell,
		Amount:    999,
	})
	require.NoError(t, err)

	// Sell charges the first band's 3.5% against the proceeds.
	assert.InDelta(t, 999*0.035, res.Quote.FeeAmount, 1e-9)
	assert.InDelta(t, 999-999*0.035, res.Quote.TotalAmount, 1e-9)
	assert.Equal(t, 160234.50, res.Quote.UnitPrice)
}

func TestGetQuoteAppliesOverride(t *testing.T) {
	usdt := &models.Asset{Symbol: "USDT", Name: "Tether", Enabled: true, BuySpreadPct: 1.0}
	assets, feed, fees := setupMocks(t, usdt, 5.02, &pricing.Override{Kind: pricing.OverrideFixed, Value: 0.02})
	svc := NewService(assets, feed, fees)

	res, err := svc.GetQuote(context.Background(), Request{
		Symbol:    "USDT",
		Operation: pricing.OpBuy,
		Amount:    100,
	})
	require.NoError(t, err)

	// Override lifts the base to 5.04 before the 1% buy spread.
	assert.InDelta(t, 5.04*1.01, res.Quote.UnitPrice, 1e-9)
	assert.Equal(t, 5.02, res.BasePrice)
}

func TestGetQuoteRejections(t *testing.T) {
	t.Run("unknown operation", func(t *testing.T) {
		svc := NewService(new(MockAssetRepo), new(MockFeed), new(MockFees))
		_, err := svc.GetQuote(context.Background(), Request{Symbol: "BTC", Operation: "swap", Amount: 10})
		assert.ErrorIs(t, err, pricing.ErrInvalidOperation)
	})

	t.Run("unknown asset", func(t *testing.T) {
		assets := new(MockAssetRepo)
		assets.On("GetBySymbol", "DOGE").Return(nil, repositories.ErrAssetNotFound)
		svc := NewService(assets, new(MockFeed), new(MockFees))

		_, err := svc.GetQuote(context.Background(), Request{Symbol: "DOGE", Operation: pricing.OpBuy, Amount: 10})
		assert.ErrorIs(t, err, repositories.ErrAssetNotFound)
	})

	t.Run("disabled asset", func(t *testing.T) {
		assets := new(MockAssetRepo)
		assets.On("GetBySymbol", "BTC").Return(&models.Asset{Symbol: "BTC", Enabled: false}, nil)
		svc := NewService(assets, new(MockFeed), new(MockFees))

		_, err := svc.GetQuote(context.Background(), Request{Symbol: "BTC", Operation: pricing.OpBuy, Amount: 10})
		assert.ErrorIs(t, err, ErrAssetDisabled)
	})

	t.Run("stale price", func(t *testing.T) {
		assets := new(MockAssetRepo)
		feed := new(MockFeed)
		asset := btcAsset()
		assets.On("GetBySymbol", "BTC").Return(asset, nil)
		feed.On("Latest", mock.Anything, asset).Return(models.PriceSnapshot{}, pricefeed.ErrPriceStale)
		svc := NewService(assets, feed, new(MockFees))

		_, err := svc.GetQuote(context.Background(), Request{Symbol: "BTC", Operation: pricing.OpBuy, Amount: 10})
		assert.ErrorIs(t, err, pricefeed.ErrPriceStale)
	})
}

func TestListAssets(t *testing.T) {
	assets := new(MockAssetRepo)
	feed := new(MockFeed)

	btc := models.Asset{Symbol: "BTC", Name: "Bitcoin", Enabled: true}
	eth := models.Asset{Symbol: "ETH", Name: "Ether", Enabled: true}
	assets.On("ListEnabled").Return([]models.Asset{btc, eth}, nil)
	feed.On("Latest", mock.Anything, mock.MatchedBy(func(a *models.Asset) bool { return a.Symbol == "BTC" })).
		Return(models.PriceSnapshot{Symbol: "BTC", UnitPrice: 160234.50, Source: "feed", Timestamp: time.Now()}, nil)
	feed.On("Latest", mock.Anything, mock.MatchedBy(func(a *models.Asset) bool { return a.Symbol == "ETH" })).
		Return(models.PriceSnapshot{}, pricefeed.ErrPriceUnavailable)

	svc := NewService(assets, feed, new(MockFees))
	list, err := svc.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.True(t, list[0].Available)
	assert.Equal(t, 160234.50, list[0].UnitPrice)
	// Assets without a snapshot are listed but marked unavailable.
	assert.False(t, list[1].Available)
}
