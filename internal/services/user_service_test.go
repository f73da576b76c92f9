package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/config"
	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
)

func newUserService(userRepo *mockUserRepo) *UserService {
	return NewUserService(userRepo, NewEmailService(&config.Config{}), newTestAudit(), jobs.NewWorker(1))
}

func noUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestUserService_Create_Success(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		mockFindByEmail: noUserByEmail,
		mockCreate: func(ctx context.Context, user *models.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}

	user, err := newUserService(repo).Create(context.Background(), &models.User{
		Email:    "nova@viaplan.com.br",
		FullName: "Nova Engenheira",
	}, "senha-segura-123", AuditEntry{UserID: 1})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEqual(t, "senha-segura-123", created.EncryptedPassword)
	assert.True(t, VerifyPassword("senha-segura-123", created.EncryptedPassword))
}

func TestUserService_Create_Validation(t *testing.T) {
	repo := &mockUserRepo{mockFindByEmail: noUserByEmail}
	svc := newUserService(repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     models.User
		password string
	}{
		{
			name:     "Missing Name",
			user:     models.User{Email: "a@b.com"},
			password: "senha-segura-123",
		},
		{
			name:     "Invalid Email",
			user:     models.User{Email: "nao-e-email", FullName: "Fulano"},
			password: "senha-segura-123",
		},
		{
			name:     "Short Password",
			user:     models.User{Email: "a@b.com", FullName: "Fulano"},
			password: "curta",
		},
		{
			name:     "Unknown Role",
			user:     models.User{Email: "a@b.com", FullName: "Fulano", Role: "superuser"},
			password: "senha-segura-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.user, tt.password, AuditEntry{})
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 3, Email: email}, nil
		},
	}

	_, err := newUserService(repo).Create(context.Background(), &models.User{
		Email:    "ja@viaplan.com.br",
		FullName: "Repetida",
	}, "senha-segura-123", AuditEntry{})

	assert.True(t, errors.Is(err, ErrDuplicate))
}
