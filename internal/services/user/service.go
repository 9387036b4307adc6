package user

import (
	"errors"

	"balcao/internal/models"
	"balcao/internal/repositories"
	"balcao/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=8"`
	Password string `json:"password" validate:"required,min=8"`
	PixKey   string `json:"pix_key"`
}

type Service interface {
	GetByID(id uint) (*models.User, error)
	Create(input *CreateUserInput) (*models.User, error)
	Update(user *models.User) error
	UpdatePixKey(userID uint, pixKey string) (*models.User, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	if repo == nil {
		panic("user repo is required")
	}
	return &service{
		repo: repo,
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) Create(input *CreateUserInput) (*models.User, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, err
	}
	if !validation.HasSpecialChar(input.Password) {
		return nil, errors.New("password must contain at least one special character")
	}

	existingUser, _ := s.repo.GetByEmail(input.Email)
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     "customer",
		Status:   "active",
		PixKey:   input.PixKey,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Update(user *models.User) error {
	return s.repo.Update(user)
}

// UpdatePixKey sets the PIX key used for sell order payouts.
func (s *service) UpdatePixKey(userID uint, pixKey string) (*models.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.PixKey = pixKey
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
