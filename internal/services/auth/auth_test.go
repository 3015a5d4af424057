package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/study-tools-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/study-tools-hub/internal/lib/password"
	"github.com/magabrotheeeer/study-tools-hub/internal/models"
	"github.com/magabrotheeeer/study-tools-hub/internal/paymentprovider"
	services "github.com/magabrotheeeer/study-tools-hub/internal/services/auth"
	"github.com/magabrotheeeer/study-tools-hub/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type CustomerProviderMock struct {
	mock.Mock
}

func (m *CustomerProviderMock) CreateCustomer(ctx context.Context, email, name string) (*paymentprovider.Customer, error) {
	args := m.Called(ctx, email, name)
	c, _ := args.Get(0).(*paymentprovider.Customer)
	return c, args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*customjwt.CustomClaims)
	return c, args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	in := services.RegisterInput{Name: "Riya", Email: "riya@example.com", Password: "secret1", PreparingFor: models.ExamNEET}
	notFound := fmt.Errorf("repository.Users.FindByEmail: %w", repository.ErrNotFound)

	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock, c *CustomerProviderMock)
		wantErr    error
		errMsg     string
	}{
		{
			name: "trial user with billing customer",
			setupMocks: func(r *UserRepoMock, c *CustomerProviderMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(nil, notFound).Once()
				c.On("CreateCustomer", mock.Anything, "riya@example.com", "Riya").Return(&paymentprovider.Customer{ID: "cust_1"}, nil).Once()
				r.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "riya@example.com" &&
						u.Name == "Riya" &&
						u.Role == models.RoleUser &&
						u.SubscriptionStatus == models.StatusTrial &&
						u.PreparingFor == models.ExamNEET &&
						u.BillingCustomerID == "cust_1" &&
						!u.TrialStartDate.IsZero() &&
						password.CompareHash(u.PasswordHash, "secret1") == nil
				})).Return(&models.User{ID: "u1", Email: "riya@example.com"}, nil).Once()
			},
		},
		{
			name: "email taken",
			setupMocks: func(r *UserRepoMock, _ *CustomerProviderMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(&models.User{ID: "u0"}, nil).Once()
			},
			wantErr: services.ErrUserExists,
		},
		{
			name: "store failure on lookup",
			setupMocks: func(r *UserRepoMock, _ *CustomerProviderMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(nil, errors.New("corrupt users.json")).Once()
			},
			errMsg: "corrupt users.json",
		},
		{
			name: "provider failure",
			setupMocks: func(r *UserRepoMock, c *CustomerProviderMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(nil, notFound).Once()
				c.On("CreateCustomer", mock.Anything, "riya@example.com", "Riya").Return(nil, errors.New("provider down")).Once()
			},
			errMsg: "provider down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			customers := new(CustomerProviderMock)
			svc := services.NewAuthService(repo, customers, new(JwtMakerMock))

			tt.setupMocks(repo, customers)

			user, err := svc.Register(context.Background(), in)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				assert.ErrorContains(t, err, tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, "u1", user.ID)
			}

			repo.AssertExpectations(t)
			customers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("correctpassword")
	require.NoError(t, err)

	stored := &models.User{
		ID:           "u1",
		Email:        "riya@example.com",
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
		errMsg     string
	}{
		{
			name:     "successful login",
			email:    "riya@example.com",
			password: "correctpassword",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(stored, nil).Once()
				j.On("GenerateToken", "u1", "riya@example.com", "USER").Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "whatever",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "riya@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(stored, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "token generation error",
			email:    "riya@example.com",
			password: "correctpassword",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("FindByEmail", mock.Anything, "riya@example.com").Return(stored, nil).Once()
				j.On("GenerateToken", "u1", "riya@example.com", "USER").Return("", errors.New("token error")).Once()
			},
			errMsg: "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, new(CustomerProviderMock), jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			case tt.errMsg != "":
				assert.ErrorContains(t, err, tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, "u1", user.ID)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	claims := &customjwt.CustomClaims{Email: "riya@example.com", Role: "USER"}
	claims.Subject = "u1"

	t.Run("valid token", func(t *testing.T) {
		jwtMock := new(JwtMakerMock)
		jwtMock.On("ParseToken", "valid-token").Return(claims, nil).Once()
		svc := services.NewAuthService(new(UserRepoMock), new(CustomerProviderMock), jwtMock)

		got, err := svc.ValidateToken(context.Background(), "valid-token")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID())
	})

	t.Run("invalid token", func(t *testing.T) {
		jwtMock := new(JwtMakerMock)
		jwtMock.On("ParseToken", "bad").Return(nil, customjwt.ErrInvalidToken).Once()
		svc := services.NewAuthService(new(UserRepoMock), new(CustomerProviderMock), jwtMock)

		_, err := svc.ValidateToken(context.Background(), "bad")
		assert.ErrorIs(t, err, customjwt.ErrInvalidToken)
	})
}
