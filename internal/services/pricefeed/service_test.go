package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"balcao/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchPrice(ctx context.Context, feedSymbol string) (float64, error) {
	args := m.Called(ctx, feedSymbol)
	return args.Get(0).(float64), args.Error(1)
}

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

func (m *MockAssetRepo) Create(a *models.Asset) error {
	return m.Called(a).Error(0)
}

func (m *MockAssetRepo) Update(a *models.Asset) error {
	return m.Called(a).Error(0)
}

// fakeCache is an in-memory SnapshotCache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func TestRefreshStoresSnapshots(t *testing.T) {
	client := new(MockClient)
	repo := new(MockAssetRepo)
	cache := newFakeCache()

	repo.On("ListEnabled").Return([]models.Asset{
		{Symbol: "BTC", FeedSymbol: "BTC-BRL"},
		{Symbol: "USDT"},
	}, nil)
	client.On("FetchPrice", mock.Anything, "BTC-BRL").Return(160234.50, nil)
	// FeedSymbol falls back to the asset symbol when unset.
	client.On("FetchPrice", mock.Anything, "USDT").Return(5.02, nil)

	svc := NewService(client, repo, cache, Config{})
	require.NoError(t, svc.Refresh(context.Background()))

	btc := &models.Asset{Symbol: "BTC"}
	snap, err := svc.Latest(context.Background(), btc)
	require.NoError(t, err)
	assert.Equal(t, 160234.50, snap.UnitPrice)
	assert.Equal(t, "feed", snap.Source)

	client.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRefreshKeepsGoingAfterFailure(t *testing.T) {
	client := new(MockClient)
	repo := new(MockAssetRepo)
	cache := newFakeCache()

	repo.On("ListEnabled").Return([]models.Asset{
		{Symbol: "BTC"},
		{Symbol: "ETH"},
	}, nil)
	client.On("FetchPrice", mock.Anything, "BTC").Return(0.0, errors.New("upstream down"))
	client.On("FetchPrice", mock.Anything, "ETH").Return(8123.77, nil)

	svc := NewService(client, repo, cache, Config{})
	err := svc.Refresh(context.Background())
	assert.Error(t, err)

	// ETH still got its snapshot.
	snap, err := svc.Latest(context.Background(), &models.Asset{Symbol: "ETH"})
	require.NoError(t, err)
	assert.Equal(t, 8123.77, snap.UnitPrice)

	// BTC has none.
	_, err = svc.Latest(context.Background(), &models.Asset{Symbol: "BTC"})
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestLatestManualPriceWins(t *testing.T) {
	svc := NewService(new(MockClient), new(MockAssetRepo), newFakeCache(), Config{})

	snap, err := svc.Latest(context.Background(), &models.Asset{Symbol: "BTC", ManualPrice: 150000})
	require.NoError(t, err)
	assert.Equal(t, 150000.0, snap.UnitPrice)
	assert.Equal(t, "manual", snap.Source)
}

func TestLatestRefusesStaleSnapshot(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(new(MockClient), new(MockAssetRepo), cache, Config{MaxAge: time.Minute})

	old := models.PriceSnapshot{
		Symbol:    "BTC",
		UnitPrice: 160000,
		Source:    "feed",
		Timestamp: time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, cache.SetWithTTL(context.Background(), "price:BTC", old, 0))

	_, err := svc.Latest(context.Background(), &models.Asset{Symbol: "BTC"})
	assert.ErrorIs(t, err, ErrPriceStale)
}
