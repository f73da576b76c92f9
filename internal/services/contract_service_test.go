package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/config"
	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

type mockContractRepo struct {
	repository.ContractRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.Contract, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Contract, error)
	mockUpdate              func(ctx context.Context, contract *models.Contract) error
	mockReplaceParticipants func(ctx context.Context, contractID uint, participants []models.ContractParticipant) error
}

func (m *mockContractRepo) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockContractRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

func (m *mockContractRepo) Update(ctx context.Context, contract *models.Contract) error {
	return m.mockUpdate(ctx, contract)
}

func (m *mockContractRepo) ReplaceParticipants(ctx context.Context, contractID uint, participants []models.ContractParticipant) error {
	return m.mockReplaceParticipants(ctx, contractID, participants)
}

type mockEditorRepo struct {
	repository.EditorRepository
	mockIsEditor func(ctx context.Context, contractID, userID uint) (bool, error)
	mockCreate   func(ctx context.Context, editor *models.ContractEditor) error
}

func (m *mockEditorRepo) IsEditor(ctx context.Context, contractID, userID uint) (bool, error) {
	return m.mockIsEditor(ctx, contractID, userID)
}

func (m *mockEditorRepo) Create(ctx context.Context, editor *models.ContractEditor) error {
	return m.mockCreate(ctx, editor)
}

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
	mockCreate      func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func newContractService(contractRepo *mockContractRepo, editorRepo *mockEditorRepo, fichaRepo *mockFichaRepo, userRepo *mockUserRepo) *ContractService {
	if editorRepo == nil {
		editorRepo = &mockEditorRepo{}
	}
	if fichaRepo == nil {
		fichaRepo = &mockFichaRepo{}
	}
	if userRepo == nil {
		userRepo = &mockUserRepo{}
	}
	return NewContractService(
		contractRepo, editorRepo, fichaRepo, userRepo,
		NewEmailService(&config.Config{}), newTestAudit(), jobs.NewWorker(1),
	)
}

func TestContractService_CanEdit(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, OwnerID: 10}, nil
		},
	}
	editorRepo := &mockEditorRepo{
		mockIsEditor: func(ctx context.Context, contractID, userID uint) (bool, error) {
			return userID == 20, nil
		},
	}
	service := newContractService(contractRepo, editorRepo, nil, nil)

	owner, err := service.CanEdit(context.Background(), 1, 10, false)
	assert.NoError(t, err)
	assert.True(t, owner)

	admin, err := service.CanEdit(context.Background(), 1, 99, true)
	assert.NoError(t, err)
	assert.True(t, admin)

	editor, err := service.CanEdit(context.Background(), 1, 20, false)
	assert.NoError(t, err)
	assert.True(t, editor)

	stranger, err := service.CanEdit(context.Background(), 1, 30, false)
	assert.NoError(t, err)
	assert.False(t, stranger)
}

func TestContractService_Transition_InvalidState(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: models.ContractStatusEncerrado}, nil
		},
	}
	service := newContractService(contractRepo, nil, nil, nil)

	_, err := service.Transition(context.Background(), 1, "activate", AuditEntry{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestContractService_Transition_ActivatesDraft(t *testing.T) {
	contract := &models.Contract{ID: 1, Status: models.ContractStatusRascunho}
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return contract, nil
		},
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdate: func(ctx context.Context, c *models.Contract) error {
			return nil
		},
	}
	service := newContractService(contractRepo, nil, nil, nil)

	updated, err := service.Transition(context.Background(), 1, "activate", AuditEntry{})
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusAtivo, updated.Status)
}

func TestContractService_Transition_UnknownEvent(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: models.ContractStatusRascunho}, nil
		},
	}
	service := newContractService(contractRepo, nil, nil, nil)

	_, err := service.Transition(context.Background(), 1, "explode", AuditEntry{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_SetParticipants_OutroRequiresCustomRole(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id}, nil
		},
	}
	service := newContractService(contractRepo, nil, nil, nil)

	_, err := service.SetParticipants(context.Background(), 1, []models.ContractParticipant{
		{FichaID: 1, Role: models.ParticipantRoleOutro},
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "OUTRO exige descrição")
}

func TestContractService_SetParticipants_CustomRoleOnlyWithOutro(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id}, nil
		},
	}
	service := newContractService(contractRepo, nil, nil, nil)

	custom := "Consultor"
	_, err := service.SetParticipants(context.Background(), 1, []models.ContractParticipant{
		{FichaID: 1, Role: models.ParticipantRoleFiscal, CustomRole: &custom},
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_SetParticipants_AssignsUUIDs(t *testing.T) {
	contract := &models.Contract{ID: 1}
	var replaced []models.ContractParticipant
	contractRepo := &mockContractRepo{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Contract, error) {
			return contract, nil
		},
		mockReplaceParticipants: func(ctx context.Context, contractID uint, participants []models.ContractParticipant) error {
			replaced = participants
			return nil
		},
	}
	fichaRepo := &mockFichaRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Ficha, error) {
			return &models.Ficha{ID: id}, nil
		},
	}
	service := newContractService(contractRepo, nil, fichaRepo, nil)

	_, err := service.SetParticipants(context.Background(), 1, []models.ContractParticipant{
		{FichaID: 1, Role: models.ParticipantRoleFiscal},
		{FichaID: 2, Role: models.ParticipantRoleEquipe},
	}, AuditEntry{})

	assert.NoError(t, err)
	assert.Len(t, replaced, 2)
	assert.NotEmpty(t, replaced[0].ID)
	assert.NotEqual(t, replaced[0].ID, replaced[1].ID)
	assert.Equal(t, uint(1), replaced[0].ContractID)
}

func TestContractService_AddEditor_RejectsOwner(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, OwnerID: 10}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 10, Email: email}, nil
		},
	}
	service := newContractService(contractRepo, nil, nil, userRepo)

	_, err := service.AddEditor(context.Background(), 1, "owner@viaplan.app", AuditEntry{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "responsável já tem acesso total")
}

func TestContractService_AddEditor_RejectsDuplicate(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, OwnerID: 10}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: 20, Email: email}, nil
		},
	}
	editorRepo := &mockEditorRepo{
		mockIsEditor: func(ctx context.Context, contractID, userID uint) (bool, error) {
			return true, nil
		},
	}
	service := newContractService(contractRepo, editorRepo, nil, userRepo)

	_, err := service.AddEditor(context.Background(), 1, "editor@viaplan.app", AuditEntry{})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestContractService_AddEditor_UnknownEmail(t *testing.T) {
	contractRepo := &mockContractRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, OwnerID: 10}, nil
		},
	}
	userRepo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newContractService(contractRepo, nil, nil, userRepo)

	_, err := service.AddEditor(context.Background(), 1, "nobody@viaplan.app", AuditEntry{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "usuário não encontrado")
}

func TestComputeParticipationSummary_ExactHundred(t *testing.T) {
	summary := models.ComputeParticipationSummary([]models.CompanyParticipation{
		{Nome: "Alfa", Percentage: 60},
		{Nome: "Beta", Percentage: 40},
	})

	assert.Equal(t, 100.00, summary.Total)
	assert.Equal(t, models.ParticipationStatusSuccess, summary.Status)
}

func TestComputeParticipationSummary_RoundsTwoDecimals(t *testing.T) {
	summary := models.ComputeParticipationSummary([]models.CompanyParticipation{
		{Nome: "Alfa", Percentage: 33.333},
		{Nome: "Beta", Percentage: 33.333},
		{Nome: "Gama", Percentage: 33.333},
	})

	assert.Equal(t, 100.0, summary.Total)
	assert.Equal(t, models.ParticipationStatusSuccess, summary.Status)
}

func TestComputeParticipationSummary_Warning(t *testing.T) {
	summary := models.ComputeParticipationSummary([]models.CompanyParticipation{
		{Nome: "Alfa", Percentage: 50},
		{Nome: "Beta", Percentage: 30},
	})

	assert.Equal(t, 80.00, summary.Total)
	assert.Equal(t, models.ParticipationStatusWarning, summary.Status)
	assert.Contains(t, summary.Message, "80.00")
}
