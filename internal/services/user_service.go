package services

import (
	"context"
	"fmt"

	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// UserService handles account management. All operations are admin-only;
// the handlers enforce that.
type UserService struct {
	userRepo repository.UserRepository
	email    *EmailService
	audit    *AuditService
	worker   *jobs.Worker
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, email *EmailService, audit *AuditService, worker *jobs.Worker) *UserService {
	return &UserService{
		userRepo: userRepo,
		email:    email,
		audit:    audit,
		worker:   worker,
	}
}

// List returns accounts paginated
func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, query)
}

// Create registers an account with a hashed password and sends the
// welcome e-mail asynchronously
func (s *UserService) Create(ctx context.Context, user *models.User, password string, meta AuditEntry) (*models.User, error) {
	if user.FullName == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}
	if !emailPattern.MatchString(user.Email) {
		return nil, fmt.Errorf("%w: email inválido", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: senha deve ter pelo menos 8 caracteres", ErrValidation)
	}
	if user.Role != "" && user.Role != models.RoleAdmin && user.Role != models.RoleUser {
		return nil, fmt.Errorf("%w: perfil inválido: %s", ErrValidation, user.Role)
	}

	if _, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("%w: email já cadastrado", ErrDuplicate)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.EncryptedPassword = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	welcome := *user
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.email.SendAccountCreated(ctx, &welcome)
	})

	meta.Action = models.AuditActionCreate
	meta.Entity = "User"
	meta.EntityID = user.ID
	meta.Changes = user.ToResponse()
	s.audit.Record(meta)

	return user, nil
}
