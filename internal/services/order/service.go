// Package order implements the P2P order lifecycle: creation against a
// locked quote, the status machine, and listing for customers and the
// back office.
package order

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/services/kyc"
	"balcao/internal/services/pricing"
	"balcao/internal/services/quote"

	"github.com/google/uuid"
)

type CreateRequest struct {
	Symbol    string
	Operation pricing.Operation
	Amount    float64 // fiat amount in BRL
	PixKey    string
}

type Service interface {
	Create(ctx context.Context, userID uint, req CreateRequest) (*models.Order, error)
	Get(ctx context.Context, reference string) (*models.Order, error)
	UpdateStatus(ctx context.Context, reference, newStatus, reason string) (*models.Order, error)
	ForceCancel(ctx context.Context, reference, reason string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error)
}

// Notifier is the slice of the notification service order events need.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, title, body string) error
}

type service struct {
	repo     repositories.OrderRepository
	users    repositories.UserRepository
	quotes   quote.Service
	notifier Notifier
}

func NewService(repo repositories.OrderRepository, users repositories.UserRepository, quotes quote.Service, notifier Notifier) Service {
	if repo == nil {
		panic("order repo is required")
	}
	if users == nil {
		panic("user repo is required")
	}
	if quotes == nil {
		panic("quote service is required")
	}
	return &service{
		repo:     repo,
		users:    users,
		quotes:   quotes,
		notifier: notifier,
	}
}

// Create prices the order through the quote service and locks the
// resulting values on the row. The user's KYC level caps the fiat
// amount.
func (s *service) Create(ctx context.Context, userID uint, req CreateRequest) (*models.Order, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if limit, capped := kyc.OrderLimit(user.KYCLevel); capped {
		if limit == 0 {
			return nil, ErrKYCRequired
		}
		if req.Amount > limit {
			return nil, fmt.Errorf("%w: R$ %.2f > R$ %.2f (level %d)", ErrKYCLimitExceeded, req.Amount, limit, user.KYCLevel)
		}
	}

	res, err := s.quotes.GetQuote(ctx, quote.Request{
		Symbol:    req.Symbol,
		Operation: req.Operation,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Reference:    uuid.NewString(),
		UserID:       userID,
		AssetSymbol:  res.Symbol,
		Operation:    res.Operation,
		FiatAmount:   req.Amount,
		CryptoAmount: res.Quote.CryptoAmount,
		UnitPrice:    res.Quote.UnitPrice,
		FeeAmount:    res.Quote.FeeAmount,
		TotalAmount:  res.Quote.TotalAmount,
		RatePct:      res.Quote.EffectiveRatePct,
		Status:       models.OrderStatusPending,
		PixKey:       req.PixKey,
		PriceAt:      res.PriceAt,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, reference string) (*models.Order, error) {
	return s.repo.GetByReference(reference)
}

// UpdateStatus moves the order through the status machine. The move is
// validated against the static transition table; terminal statuses
// never move again.
func (s *service) UpdateStatus(ctx context.Context, reference, newStatus, reason string) (*models.Order, error) {
	order, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}

	if len(transitions[order.Status]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderClosed, order.Status)
	}
	if err := validateTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	order.Status = newStatus
	order.StatusReason = reason
	if newStatus == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		switch newStatus {
		case models.OrderStatusCompleted:
			_ = s.notifier.Notify(ctx, order.UserID, models.NotificationKindOrder,
				"Ordem concluída",
				fmt.Sprintf("Sua ordem %s de %s foi concluída.", order.Reference, order.AssetSymbol))
		case models.OrderStatusCancelled:
			_ = s.notifier.Notify(ctx, order.UserID, models.NotificationKindOrder,
				"Ordem cancelada",
				fmt.Sprintf("Sua ordem %s foi cancelada. %s", order.Reference, reason))
		}
	}
	return order, nil
}

// ForceCancel cancels an order from any non-terminal status, bypassing
// the transition table. Back-office use only: a paid order cancelled
// this way still needs its PIX payment refunded out of band.
func (s *service) ForceCancel(ctx context.Context, reference, reason string) (*models.Order, error) {
	order, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}

	if len(transitions[order.Status]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderClosed, order.Status)
	}

	order.Status = models.OrderStatusCancelled
	order.StatusReason = reason
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, order.UserID, models.NotificationKindOrder,
			"Ordem cancelada",
			fmt.Sprintf("Sua ordem %s foi cancelada. %s", order.Reference, reason))
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *service) ListAll(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.repo.ListAll(status, limit, offset)
}
