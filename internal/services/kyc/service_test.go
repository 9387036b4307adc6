package kyc

import (
	"context"
	"testing"

	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKYCRepo struct {
	mock.Mock
}

func (m *MockKYCRepo) Create(v *models.KYCVerification) error {
	return m.Called(v).Error(0)
}

func (m *MockKYCRepo) GetByID(id uint) (*models.KYCVerification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCVerification), args.Error(1)
}

func (m *MockKYCRepo) LatestByUser(userID uint) (*models.KYCVerification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCVerification), args.Error(1)
}

func (m *MockKYCRepo) PendingQueue(limit, offset int) ([]models.KYCVerification, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.KYCVerification), args.Get(1).(int64), args.Error(2)
}

func (m *MockKYCRepo) Update(v *models.KYCVerification) error {
	return m.Called(v).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error      { return m.Called(user).Error(0) }
func (m *MockUserRepo) IncrementTokenVersion(id uint) error { return m.Called(id).Error(0) }

func (m *MockUserRepo) GetPaginated(limit, offset int) ([]models.User, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) ActiveIDs() ([]uint, error) {
	args := m.Called()
	return args.Get(0).([]uint), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uint, kind, title, body string) error {
	return m.Called(ctx, userID, kind, title, body).Error(0)
}

func TestOrderLimit(t *testing.T) {
	limit, capped := OrderLimit(0)
	assert.True(t, capped)
	assert.Zero(t, limit)

	limit, capped = OrderLimit(1)
	assert.True(t, capped)
	assert.Equal(t, 5_000.0, limit)

	limit, capped = OrderLimit(2)
	assert.True(t, capped)
	assert.Equal(t, 50_000.0, limit)

	_, capped = OrderLimit(3)
	assert.False(t, capped)
}

func TestSubmit(t *testing.T) {
	t.Run("creates a pending verification and flags the user", func(t *testing.T) {
		repo := new(MockKYCRepo)
		users := new(MockUserRepo)

		repo.On("LatestByUser", uint(1)).Return(nil, repositories.ErrKYCNotFound)
		repo.On("Create", mock.MatchedBy(func(v *models.KYCVerification) bool {
			return v.UserID == 1 && v.Status == models.KYCStatusPending && v.DocumentID == "123.456.789-00"
		})).Return(nil)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		users.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.KYCStatus == models.KYCStatusPending
		})).Return(nil)

		svc := NewService(repo, users, nil)
		v, err := svc.Submit(context.Background(), 1, SubmitRequest{
			DocumentID:  "123.456.789-00",
			DocumentURL: "https://docs.example/front.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, models.KYCStatusPending, v.Status)

		repo.AssertExpectations(t)
	})

	t.Run("blocks a second submission while one is pending", func(t *testing.T) {
		repo := new(MockKYCRepo)
		repo.On("LatestByUser", uint(1)).Return(&models.KYCVerification{
			UserID: 1, Status: models.KYCStatusPending,
		}, nil)

		svc := NewService(repo, new(MockUserRepo), nil)
		_, err := svc.Submit(context.Background(), 1, SubmitRequest{DocumentID: "x"})
		assert.ErrorIs(t, err, ErrAlreadyPending)
	})

	t.Run("allows resubmission after rejection", func(t *testing.T) {
		repo := new(MockKYCRepo)
		users := new(MockUserRepo)

		repo.On("LatestByUser", uint(1)).Return(&models.KYCVerification{
			UserID: 1, Status: models.KYCStatusRejected,
		}, nil)
		repo.On("Create", mock.Anything).Return(nil)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		users.On("Update", mock.Anything).Return(nil)

		svc := NewService(repo, users, nil)
		_, err := svc.Submit(context.Background(), 1, SubmitRequest{DocumentID: "x"})
		assert.NoError(t, err)
	})
}

func TestApprove(t *testing.T) {
	t.Run("grants the level and notifies the user", func(t *testing.T) {
		repo := new(MockKYCRepo)
		users := new(MockUserRepo)
		notifier := new(MockNotifier)

		repo.On("GetByID", uint(10)).Return(&models.KYCVerification{
			UserID: 1, Status: models.KYCStatusPending,
		}, nil)
		repo.On("Update", mock.MatchedBy(func(v *models.KYCVerification) bool {
			return v.Status == models.KYCStatusApproved &&
				v.Level == 2 &&
				v.ReviewedBy == "ops@example.com" &&
				v.ReviewedAt != nil
		})).Return(nil)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		users.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.KYCLevel == 2 && u.KYCStatus == models.KYCStatusApproved
		})).Return(nil)
		notifier.On("Notify", mock.Anything, uint(1), models.NotificationKindKYC,
			mock.Anything, mock.Anything).Return(nil)

		svc := NewService(repo, users, notifier)
		v, err := svc.Approve(context.Background(), 10, 2, "ops@example.com")
		require.NoError(t, err)
		assert.Equal(t, 2, v.Level)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("rejects out of range levels", func(t *testing.T) {
		svc := NewService(new(MockKYCRepo), new(MockUserRepo), nil)

		_, err := svc.Approve(context.Background(), 10, 0, "ops@example.com")
		assert.ErrorIs(t, err, ErrInvalidLevel)

		_, err = svc.Approve(context.Background(), 10, 4, "ops@example.com")
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})

	t.Run("refuses an already reviewed verification", func(t *testing.T) {
		repo := new(MockKYCRepo)
		repo.On("GetByID", uint(10)).Return(&models.KYCVerification{
			UserID: 1, Status: models.KYCStatusApproved,
		}, nil)

		svc := NewService(repo, new(MockUserRepo), nil)
		_, err := svc.Approve(context.Background(), 10, 1, "ops@example.com")
		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestReject(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		svc := NewService(new(MockKYCRepo), new(MockUserRepo), nil)
		_, err := svc.Reject(context.Background(), 10, "", "ops@example.com")
		assert.ErrorIs(t, err, ErrEmptyReason)
	})

	t.Run("records the reason and notifies", func(t *testing.T) {
		repo := new(MockKYCRepo)
		users := new(MockUserRepo)
		notifier := new(MockNotifier)

		repo.On("GetByID", uint(10)).Return(&models.KYCVerification{
			UserID: 1, Status: models.KYCStatusPending,
		}, nil)
		repo.On("Update", mock.MatchedBy(func(v *models.KYCVerification) bool {
			return v.Status == models.KYCStatusRejected && v.RejectReason == "documento ilegível"
		})).Return(nil)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		users.On("Update", mock.Anything).Return(nil)
		notifier.On("Notify", mock.Anything, uint(1), models.NotificationKindKYC,
			"Verificação recusada", "documento ilegível").Return(nil)

		svc := NewService(repo, users, notifier)
		v, err := svc.Reject(context.Background(), 10, "documento ilegível", "ops@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.KYCStatusRejected, v.Status)

		notifier.AssertExpectations(t)
	})
}
