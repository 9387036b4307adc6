// Package feeconfig owns the fee tier table and per-asset spread
// overrides: a versioned configuration store with an audit trail,
// cached in Redis so the quote path stays off Postgres.
package feeconfig

import (
	"context"
	"errors"
	"fmt"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/repositories/cache"
	"balcao/internal/services/pricing"
)

const (
	tiersCacheKey       = "feeconfig:tiers"
	overrideCachePrefix = "feeconfig:override:"
)

type Service interface {
	TierTable(ctx context.Context) (pricing.TierTable, error)
	ReplaceTierTable(ctx context.Context, tiers []pricing.FeeTier, actor string) error
	Override(ctx context.Context, assetSymbol string) (*pricing.Override, error)
	SetOverride(ctx context.Context, assetSymbol string, ov pricing.Override, actor string) error
	ClearOverride(ctx context.Context, assetSymbol string, actor string) error
	AuditTrail(ctx context.Context, limit, offset int) ([]models.FeeConfigAudit, int64, error)
}

type service struct {
	repo  repositories.FeeConfigRepository
	cache *cache.CacheService
}

func NewService(repo repositories.FeeConfigRepository, cacheService *cache.CacheService) Service {
	if repo == nil {
		panic("fee config repo is required")
	}
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

// TierTable loads and validates the configured tier table. Validation
// happens here, at load time, so a malformed table fails fast instead
// of mispricing quotes.
func (s *service) TierTable(ctx context.Context) (pricing.TierTable, error) {
	if s.cache != nil {
		var cached []pricing.FeeTier
		if found, err := s.cache.Get(ctx, tiersCacheKey, &cached); err == nil && found {
			if table, err := pricing.NewTierTable(cached); err == nil {
				return table, nil
			}
			// Stale or corrupt cache entry falls through to the DB.
			_ = s.cache.Delete(ctx, tiersCacheKey)
		}
	}

	rows, err := s.repo.LoadTiers()
	if err != nil {
		return pricing.TierTable{}, err
	}

	tiers := make([]pricing.FeeTier, len(rows))
	for i, row := range rows {
		tiers[i] = pricing.FeeTier{Min: row.MinAmount, Max: row.MaxAmount, Rate: row.Rate}
	}

	table, err := pricing.NewTierTable(tiers)
	if err != nil {
		return pricing.TierTable{}, fmt.Errorf("fee tier configuration is invalid: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, tiersCacheKey, tiers)
	}
	return table, nil
}

// ReplaceTierTable validates and atomically swaps the tier table,
// writing an audit row with before/after snapshots.
func (s *service) ReplaceTierTable(ctx context.Context, tiers []pricing.FeeTier, actor string) error {
	if _, err := pricing.NewTierTable(tiers); err != nil {
		return fmt.Errorf("rejected tier table: %w", err)
	}

	previous, err := s.repo.LoadTiers()
	if err != nil {
		return err
	}

	rows := make([]models.FeeTierRow, len(tiers))
	for i, t := range tiers {
		rows[i] = models.FeeTierRow{
			MinAmount:  t.Min,
			MaxAmount:  t.Max,
			Rate:       t.Rate,
			Position:   i,
			ModifiedBy: actor,
		}
	}

	audit := &models.FeeConfigAudit{
		Actor:    actor,
		Action:   "replace",
		Entity:   "tier_table",
		Previous: models.JSON{"tiers": tierRowsSnapshot(previous)},
		Current:  models.JSON{"tiers": tierSnapshot(tiers)},
	}

	if err := s.repo.ReplaceTiers(rows, audit); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, tiersCacheKey)
	}
	return nil
}

// Override returns the asset's active price override, or nil when none
// is configured.
func (s *service) Override(ctx context.Context, assetSymbol string) (*pricing.Override, error) {
	key := overrideCachePrefix + assetSymbol
	if s.cache != nil {
		var cached pricing.Override
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverride(assetSymbol)
	if err != nil {
		if errors.Is(err, repositories.ErrOverrideNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ov := &pricing.Override{Kind: pricing.OverrideKind(row.Kind), Value: row.Value}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, ov)
	}
	return ov, nil
}

func (s *service) SetOverride(ctx context.Context, assetSymbol string, ov pricing.Override, actor string) error {
	if ov.Kind != pricing.OverrideFixed && ov.Kind != pricing.OverridePercent {
		return fmt.Errorf("%w: %q", pricing.ErrUnknownOverrideKind, ov.Kind)
	}

	prev, err := s.repo.GetOverride(assetSymbol)
	if err != nil && !errors.Is(err, repositories.ErrOverrideNotFound) {
		return err
	}

	row := &models.SpreadOverrideRow{
		AssetSymbol: assetSymbol,
		Kind:        string(ov.Kind),
		Value:       ov.Value,
		ModifiedBy:  actor,
	}
	audit := &models.FeeConfigAudit{
		Actor:    actor,
		Action:   "set",
		Entity:   "override",
		Asset:    assetSymbol,
		Previous: overrideSnapshot(prev),
		Current:  models.JSON{"kind": string(ov.Kind), "value": ov.Value},
	}

	if err := s.repo.SetOverride(row, audit); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, overrideCachePrefix+assetSymbol)
	}
	return nil
}

func (s *service) ClearOverride(ctx context.Context, assetSymbol string, actor string) error {
	prev, err := s.repo.GetOverride(assetSymbol)
	if err != nil {
		return err
	}

	audit := &models.FeeConfigAudit{
		Actor:    actor,
		Action:   "clear",
		Entity:   "override",
		Asset:    assetSymbol,
		Previous: overrideSnapshot(prev),
	}

	if err := s.repo.ClearOverride(assetSymbol, audit); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, overrideCachePrefix+assetSymbol)
	}
	return nil
}

func (s *service) AuditTrail(ctx context.Context, limit, offset int) ([]models.FeeConfigAudit, int64, error) {
	return s.repo.AuditTrail(limit, offset)
}

func tierSnapshot(tiers []pricing.FeeTier) []map[string]interface{} {
	out := make([]map[string]interface{}, len(tiers))
	for i, t := range tiers {
		out[i] = map[string]interface{}{"min": t.Min, "max": t.Max, "rate": t.Rate}
	}
	return out
}

func tierRowsSnapshot(rows []models.FeeTierRow) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		out[i] = map[string]interface{}{"min": r.MinAmount, "max": r.MaxAmount, "rate": r.Rate}
	}
	return out
}

func overrideSnapshot(row *models.SpreadOverrideRow) models.JSON {
	if row == nil {
		return nil
	}
	return models.JSON{"kind": row.Kind, "value": row.Value}
}
