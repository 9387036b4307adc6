package repositories

import (
	"errors"
	"fmt"
	"strings"

	"balcao/internal/models"

	"gorm.io/gorm"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRepository interface {
	List() ([]models.Asset, error)
	ListEnabled() ([]models.Asset, error)
	GetBySymbol(symbol string) (*models.Asset, error)
	Create(a *models.Asset) error
	Update(a *models.Asset) error
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) List() ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.db.Order("symbol").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) ListEnabled() ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.db.Where("enabled = ?", true).Order("symbol").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list enabled assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) GetBySymbol(symbol string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Where("symbol = ?", strings.ToUpper(symbol)).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (r *assetRepository) Create(a *models.Asset) error {
	a.Symbol = strings.ToUpper(a.Symbol)
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) Update(a *models.Asset) error {
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}
