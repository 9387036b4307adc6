// Package notification delivers in-app notifications: operator
// broadcasts to every active user and targeted messages from order and
// KYC events.
package notification

import (
	"context"
	"errors"
	"fmt"

	"balcao/internal/models"
	"balcao/internal/repositories"
)

var ErrEmptyBroadcast = errors.New("broadcast title is required")

type Service interface {
	Broadcast(ctx context.Context, title, body, sentBy string) (int, error)
	Notify(ctx context.Context, userID uint, kind, title, body string) error
	ListForUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type service struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
}

func NewService(repo repositories.NotificationRepository, users repositories.UserRepository) Service {
	if repo == nil {
		panic("notification repo is required")
	}
	if users == nil {
		panic("user repo is required")
	}
	return &service{repo: repo, users: users}
}

// Broadcast fans the message out to every active user and returns how
// many notifications were created.
func (s *service) Broadcast(ctx context.Context, title, body, sentBy string) (int, error) {
	if title == "" {
		return 0, ErrEmptyBroadcast
	}

	ids, err := s.users.ActiveIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve broadcast recipients: %w", err)
	}

	batch := make([]models.Notification, len(ids))
	for i, id := range ids {
		batch[i] = models.Notification{
			UserID: id,
			Kind:   models.NotificationKindBroadcast,
			Title:  title,
			Body:   body,
			SentBy: sentBy,
		}
	}

	if err := s.repo.CreateBatch(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *service) Notify(ctx context.Context, userID uint, kind, title, body string) error {
	return s.repo.Create(&models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	})
}

func (s *service) ListForUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(userID, unreadOnly, limit, offset)
}

func (s *service) MarkRead(ctx context.Context, userID, id uint) error {
	return s.repo.MarkRead(userID, id)
}
