package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/config"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate      func(ctx context.Context, rt *models.RefreshToken) error
	deleted         []string
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func newAuthService(t *testing.T, userRepo *mockUserRepo, rtRepo *mockRefreshTokenRepo) *AuthService {
	t.Helper()
	security, _ := newTestSecurity(t, nil)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	return NewAuthService(userRepo, rtRepo, security, cfg)
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)

	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                1,
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := newAuthService(t, userRepo, &mockRefreshTokenRepo{})

	result, err := service.Login(context.Background(), "user@viaplan.app", "senha123", "10.0.0.1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "user@viaplan.app", result.User.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)

	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := newAuthService(t, userRepo, &mockRefreshTokenRepo{})

	result, err := service.Login(context.Background(), "user@viaplan.app", "errada", "10.0.0.1", "")
	assert.Nil(t, result)
	assert.EqualError(t, err, "credenciais inválidas")
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newAuthService(t, userRepo, &mockRefreshTokenRepo{})

	result, err := service.Login(context.Background(), "ghost@viaplan.app", "senha", "10.0.0.1", "")
	assert.Nil(t, result)
	assert.EqualError(t, err, "credenciais inválidas")
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{Email: email, Status: models.StatusInactive}, nil
		},
	}
	service := newAuthService(t, userRepo, &mockRefreshTokenRepo{})

	result, err := service.Login(context.Background(), "inactive@viaplan.app", "senha", "10.0.0.1", "")
	assert.Nil(t, result)
	assert.EqualError(t, err, "conta inativa ou suspensa")
}

func TestAuthService_Login_BlockedAfterRepeatedFailures(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)

	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := newAuthService(t, userRepo, &mockRefreshTokenRepo{})
	ctx := context.Background()

	// Few enough attempts that the IP counters stay below their limits
	for i := 0; i < 5; i++ {
		_, err := service.Login(ctx, "victim@viaplan.app", "errada", "10.0.0.1", "")
		assert.EqualError(t, err, "credenciais inválidas")
	}

	_, err = service.Login(ctx, "victim@viaplan.app", "senha123", "10.0.0.2", "")
	require.Error(t, err)

	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, SecurityCodeUserBlocked, secErr.Code)
}

func TestAuthService_RefreshToken_RotatesToken(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	rtRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: 1, Token: token, ExpiresAt: &expires}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "user@viaplan.app", Status: models.StatusActive}, nil
		},
	}
	service := newAuthService(t, userRepo, rtRepo)

	result, err := service.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, "old-token", result.RefreshToken)
	assert.Contains(t, rtRepo.deleted, "old-token")
}

func TestAuthService_RefreshToken_Expired(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	rtRepo := &mockRefreshTokenRepo{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: 1, Token: token, ExpiresAt: &expired}, nil
		},
	}
	service := newAuthService(t, &mockUserRepo{}, rtRepo)

	result, err := service.RefreshToken(context.Background(), "stale")
	assert.Nil(t, result)
	assert.EqualError(t, err, "token expirado")
	assert.Contains(t, rtRepo.deleted, "stale")
}
