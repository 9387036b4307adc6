// Package pricefeed supplies the latest BRL unit price per asset. A
// background poller refreshes snapshots from an upstream HTTP source on
// a fixed interval and stores them in Redis; the quote path only ever
// reads the latest snapshot and never waits on the upstream.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"balcao/internal/models"
	"balcao/internal/repositories"
)

var (
	ErrPriceUnavailable = errors.New("no price snapshot for asset")
	ErrPriceStale       = errors.New("price snapshot is too old")
)

const priceCachePrefix = "price:"

// Client fetches the current BRL unit price for a feed symbol.
type Client interface {
	FetchPrice(ctx context.Context, feedSymbol string) (float64, error)
}

// SnapshotCache is the slice of the shared cache service the feed
// needs. Satisfied by *cache.CacheService.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Config tunes the poller and staleness policy.
type Config struct {
	PollInterval time.Duration // default 30s
	MaxAge       time.Duration // snapshots older than this are refused
	SnapshotTTL  time.Duration // Redis expiry, should exceed MaxAge
}

type Service interface {
	Latest(ctx context.Context, asset *models.Asset) (models.PriceSnapshot, error)
	Refresh(ctx context.Context) error
	Run(ctx context.Context)
}

type service struct {
	client Client
	assets repositories.AssetRepository
	cache  SnapshotCache
	config Config
}

func NewService(client Client, assets repositories.AssetRepository, cacheService SnapshotCache, config Config) Service {
	if client == nil {
		panic("feed client is required")
	}
	if assets == nil {
		panic("asset repo is required")
	}
	if cacheService == nil {
		panic("cache is required")
	}

	if config.PollInterval == 0 {
		config.PollInterval = 30 * time.Second
	}
	if config.MaxAge == 0 {
		config.MaxAge = 2 * time.Minute
	}
	if config.SnapshotTTL == 0 {
		config.SnapshotTTL = 10 * time.Minute
	}

	return &service{
		client: client,
		assets: assets,
		cache:  cacheService,
		config: config,
	}
}

// Latest returns the freshest price snapshot for the asset. A manual
// price pinned by an operator takes precedence over the feed. Snapshots
// past the staleness limit are refused rather than served.
func (s *service) Latest(ctx context.Context, asset *models.Asset) (models.PriceSnapshot, error) {
	if asset.ManualPrice > 0 {
		return models.PriceSnapshot{
			Symbol:    asset.Symbol,
			UnitPrice: asset.ManualPrice,
			Source:    "manual",
			Timestamp: time.Now(),
		}, nil
	}

	var snap models.PriceSnapshot
	found, err := s.cache.Get(ctx, priceCachePrefix+asset.Symbol, &snap)
	if err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("failed to read price snapshot: %w", err)
	}
	if !found {
		return models.PriceSnapshot{}, fmt.Errorf("%w: %s", ErrPriceUnavailable, asset.Symbol)
	}

	if age := snap.Age(time.Now()); age > s.config.MaxAge {
		return models.PriceSnapshot{}, fmt.Errorf("%w: %s is %s old", ErrPriceStale, asset.Symbol, age.Round(time.Second))
	}
	return snap, nil
}

// Refresh fetches a fresh price for every enabled asset. Failures are
// per-asset: one unreachable symbol does not block the others.
func (s *service) Refresh(ctx context.Context) error {
	assets, err := s.assets.ListEnabled()
	if err != nil {
		return err
	}

	var lastErr error
	for _, asset := range assets {
		feedSymbol := asset.FeedSymbol
		if feedSymbol == "" {
			feedSymbol = asset.Symbol
		}

		price, err := s.client.FetchPrice(ctx, feedSymbol)
		if err != nil {
			log.Printf("price refresh failed for %s: %v", asset.Symbol, err)
			lastErr = err
			continue
		}
		if price <= 0 {
			log.Printf("price refresh for %s returned non-positive price %v, keeping previous snapshot", asset.Symbol, price)
			continue
		}

		snap := models.PriceSnapshot{
			Symbol:    asset.Symbol,
			UnitPrice: price,
			Source:    "feed",
			Timestamp: time.Now(),
		}
		if err := s.cache.SetWithTTL(ctx, priceCachePrefix+asset.Symbol, snap, s.config.SnapshotTTL); err != nil {
			log.Printf("failed to store price snapshot for %s: %v", asset.Symbol, err)
			lastErr = err
		}
	}
	return lastErr
}

// Run polls until the context is cancelled. Intended to be started as
// a goroutine from main.
func (s *service) Run(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("initial price refresh: %v", err)
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				log.Printf("price refresh: %v", err)
			}
		}
	}
}
