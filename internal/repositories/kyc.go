package repositories

import (
	"errors"
	"fmt"

	"balcao/internal/models"

	"gorm.io/gorm"
)

var ErrKYCNotFound = errors.New("kyc verification not found")

type KYCRepository interface {
	Create(v *models.KYCVerification) error
	GetByID(id uint) (*models.KYCVerification, error)
	LatestByUser(userID uint) (*models.KYCVerification, error)
	PendingQueue(limit, offset int) ([]models.KYCVerification, int64, error)
	Update(v *models.KYCVerification) error
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(v *models.KYCVerification) error {
	if err := r.db.Create(v).Error; err != nil {
		return fmt.Errorf("failed to create kyc verification: %w", err)
	}
	return nil
}

func (r *kycRepository) GetByID(id uint) (*models.KYCVerification, error) {
	var v models.KYCVerification
	if err := r.db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc verification: %w", err)
	}
	return &v, nil
}

func (r *kycRepository) LatestByUser(userID uint) (*models.KYCVerification, error) {
	var v models.KYCVerification
	err := r.db.Where("user_id = ?", userID).Order("id DESC").First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc verification: %w", err)
	}
	return &v, nil
}

func (r *kycRepository) PendingQueue(limit, offset int) ([]models.KYCVerification, int64, error) {
	var rows []models.KYCVerification
	var total int64

	q := r.db.Model(&models.KYCVerification{}).Where("status = ?", models.KYCStatusPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending kyc: %w", err)
	}
	err := q.Order("id").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending kyc: %w", err)
	}
	return rows, total, nil
}

func (r *kycRepository) Update(v *models.KYCVerification) error {
	if err := r.db.Save(v).Error; err != nil {
		return fmt.Errorf("failed to update kyc verification: %w", err)
	}
	return nil
}
