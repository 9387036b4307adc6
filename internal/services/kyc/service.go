// Package kyc handles document submissions and their human review.
// Approval grants a KYC level; levels cap how much a user can move per
// order (enforced by the order service).
package kyc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balcao/internal/models"
	"balcao/internal/repositories"
)

var (
	ErrAlreadyPending = errors.New("a verification is already pending for this user")
	ErrNotPending     = errors.New("verification is not pending review")
	ErrInvalidLevel   = errors.New("kyc level must be 1, 2 or 3")
	ErrEmptyReason    = errors.New("a rejection reason is required")
)

// Per-order fiat limits by KYC level. Level 0 cannot trade; level 3 is
// uncapped.
var levelLimits = map[int]float64{
	0: 0,
	1: 5_000,
	2: 50_000,
	3: 0, // uncapped
}

// OrderLimit returns the per-order BRL cap for a KYC level. The bool
// is false when the level is uncapped.
func OrderLimit(level int) (float64, bool) {
	if level >= 3 {
		return 0, false
	}
	limit, ok := levelLimits[level]
	if !ok {
		return 0, true
	}
	return limit, true
}

type SubmitRequest struct {
	DocumentID  string
	DocumentURL string
	ProofURL    string
}

type Service interface {
	Submit(ctx context.Context, userID uint, req SubmitRequest) (*models.KYCVerification, error)
	PendingQueue(ctx context.Context, limit, offset int) ([]models.KYCVerification, int64, error)
	Approve(ctx context.Context, id uint, level int, reviewer string) (*models.KYCVerification, error)
	Reject(ctx context.Context, id uint, reason, reviewer string) (*models.KYCVerification, error)
	StatusForUser(ctx context.Context, userID uint) (*models.KYCVerification, error)
}

// Notifier is the slice of the notification service the review flow
// needs.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, title, body string) error
}

type service struct {
	repo     repositories.KYCRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewService(repo repositories.KYCRepository, users repositories.UserRepository, notifier Notifier) Service {
	if repo == nil {
		panic("kyc repo is required")
	}
	if users == nil {
		panic("user repo is required")
	}
	return &service{repo: repo, users: users, notifier: notifier}
}

func (s *service) Submit(ctx context.Context, userID uint, req SubmitRequest) (*models.KYCVerification, error) {
	if latest, err := s.repo.LatestByUser(userID); err == nil && latest.Status == models.KYCStatusPending {
		return nil, ErrAlreadyPending
	}

	v := &models.KYCVerification{
		UserID:      userID,
		Status:      models.KYCStatusPending,
		DocumentID:  req.DocumentID,
		DocumentURL: req.DocumentURL,
		ProofURL:    req.ProofURL,
	}
	if err := s.repo.Create(v); err != nil {
		return nil, err
	}

	if user, err := s.users.GetByID(userID); err == nil {
		user.KYCStatus = models.KYCStatusPending
		_ = s.users.Update(user)
	}
	return v, nil
}

func (s *service) PendingQueue(ctx context.Context, limit, offset int) ([]models.KYCVerification, int64, error) {
	return s.repo.PendingQueue(limit, offset)
}

func (s *service) Approve(ctx context.Context, id uint, level int, reviewer string) (*models.KYCVerification, error) {
	if level < 1 || level > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}

	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v.Status != models.KYCStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, v.Status)
	}

	now := time.Now()
	v.Status = models.KYCStatusApproved
	v.Level = level
	v.ReviewedBy = reviewer
	v.ReviewedAt = &now
	if err := s.repo.Update(v); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(v.UserID)
	if err != nil {
		return nil, err
	}
	user.KYCStatus = models.KYCStatusApproved
	user.KYCLevel = level
	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, v.UserID, models.NotificationKindKYC,
			"Identidade verificada",
			fmt.Sprintf("Sua verificação foi aprovada no nível %d.", level))
	}
	return v, nil
}

func (s *service) Reject(ctx context.Context, id uint, reason, reviewer string) (*models.KYCVerification, error) {
	if reason == "" {
		return nil, ErrEmptyReason
	}

	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v.Status != models.KYCStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, v.Status)
	}

	now := time.Now()
	v.Status = models.KYCStatusRejected
	v.RejectReason = reason
	v.ReviewedBy = reviewer
	v.ReviewedAt = &now
	if err := s.repo.Update(v); err != nil {
		return nil, err
	}

	if user, err := s.users.GetByID(v.UserID); err == nil {
		user.KYCStatus = models.KYCStatusRejected
		_ = s.users.Update(user)
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, v.UserID, models.NotificationKindKYC,
			"Verificação recusada", reason)
	}
	return v, nil
}

func (s *service) StatusForUser(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	return s.repo.LatestByUser(userID)
}
