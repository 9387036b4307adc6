package repositories

import (
	"errors"
	"fmt"

	"balcao/internal/models"

	"gorm.io/gorm"
)

var ErrOverrideNotFound = errors.New("spread override not found")

// FeeConfigRepository persists the volume fee tier table, per-asset
// spread overrides, and the audit trail of every mutation.
type FeeConfigRepository interface {
	LoadTiers() ([]models.FeeTierRow, error)
	ReplaceTiers(tiers []models.FeeTierRow, audit *models.FeeConfigAudit) error
	GetOverride(assetSymbol string) (*models.SpreadOverrideRow, error)
	SetOverride(row *models.SpreadOverrideRow, audit *models.FeeConfigAudit) error
	ClearOverride(assetSymbol string, audit *models.FeeConfigAudit) error
	AuditTrail(limit, offset int) ([]models.FeeConfigAudit, int64, error)
}

type feeConfigRepository struct {
	db *gorm.DB
}

func NewFeeConfigRepository(db *gorm.DB) FeeConfigRepository {
	return &feeConfigRepository{db: db}
}

func (r *feeConfigRepository) LoadTiers() ([]models.FeeTierRow, error) {
	var rows []models.FeeTierRow
	if err := r.db.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load fee tiers: %w", err)
	}
	return rows, nil
}

// ReplaceTiers swaps the whole table and writes the audit row in one
// transaction. Partial tier tables never become visible.
func (r *feeConfigRepository) ReplaceTiers(tiers []models.FeeTierRow, audit *models.FeeConfigAudit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Unscoped().Delete(&models.FeeTierRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear fee tiers: %w", err)
		}
		for i := range tiers {
			tiers[i].ID = 0
			tiers[i].Position = i
			if err := tx.Create(&tiers[i]).Error; err != nil {
				return fmt.Errorf("failed to insert fee tier %d: %w", i, err)
			}
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write fee audit: %w", err)
			}
		}
		return nil
	})
}

func (r *feeConfigRepository) GetOverride(assetSymbol string) (*models.SpreadOverrideRow, error) {
	var row models.SpreadOverrideRow
	if err := r.db.Where("asset_symbol = ?", assetSymbol).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return &row, nil
}

// SetOverride upserts the asset's override. Last write wins.
func (r *feeConfigRepository) SetOverride(row *models.SpreadOverrideRow, audit *models.FeeConfigAudit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SpreadOverrideRow
		err := tx.Where("asset_symbol = ?", row.AssetSymbol).First(&existing).Error
		switch {
		case err == nil:
			existing.Kind = row.Kind
			existing.Value = row.Value
			existing.ModifiedBy = row.ModifiedBy
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update override: %w", err)
			}
			*row = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to create override: %w", err)
			}
		default:
			return fmt.Errorf("failed to load override: %w", err)
		}

		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write fee audit: %w", err)
			}
		}
		return nil
	})
}

func (r *feeConfigRepository) ClearOverride(assetSymbol string, audit *models.FeeConfigAudit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("asset_symbol = ?", assetSymbol).Delete(&models.SpreadOverrideRow{})
		if res.Error != nil {
			return fmt.Errorf("failed to clear override: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOverrideNotFound
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write fee audit: %w", err)
			}
		}
		return nil
	})
}

func (r *feeConfigRepository) AuditTrail(limit, offset int) ([]models.FeeConfigAudit, int64, error) {
	var rows []models.FeeConfigAudit
	var total int64

	if err := r.db.Model(&models.FeeConfigAudit{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit rows: %w", err)
	}
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit rows: %w", err)
	}
	return rows, total, nil
}
