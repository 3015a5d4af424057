// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/password"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/paymentprovider"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// FindByEmail возвращает пользователя по email или repository.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Create сохраняет нового пользователя.
	Create(ctx context.Context, user models.User) (*models.User, error)
}

// CustomerProvider заводит клиента у платёжного провайдера.
type CustomerProvider interface {
	CreateCustomer(ctx context.Context, email, name string) (*paymentprovider.Customer, error)
}

// RegisterInput данные для регистрации
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	PreparingFor models.Exam
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users     UserRepository
	customers CustomerProvider
	jwtMaker  jwt.Maker
	now       func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, customers CustomerProvider, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:     users,
		customers: customers,
		jwtMaker:  jwtMaker,
		now:       time.Now,
	}
}

// Register создает пользователя в пробном периоде с ролью USER.
// Проверка занятости email и создание не атомарны.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "services.auth.Register"

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	customer, err := s.customers.CreateCustomer(ctx, in.Email, in.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.Create(ctx, models.User{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       hashed,
		Role:               models.RoleUser,
		SubscriptionStatus: models.StatusTrial,
		PreparingFor:       in.PreparingFor,
		TrialStartDate:     s.now().UTC(),
		BillingCustomerID:  customer.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login проверяет пароль пользователя и выпускает JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
