package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

type mockAuditRepo struct {
	repository.AuditRepository
}

func (m *mockAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	return nil
}

func newTestAudit() *AuditService {
	return NewAuditService(&mockAuditRepo{}, jobs.NewWorker(1))
}

type mockFichaRepo struct {
	repository.FichaRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Ficha, error)
	mockCreate   func(ctx context.Context, ficha *models.Ficha) error
}

func (m *mockFichaRepo) FindByID(ctx context.Context, id uint) (*models.Ficha, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockFichaRepo) Create(ctx context.Context, ficha *models.Ficha) error {
	return m.mockCreate(ctx, ficha)
}

type mockEmpresaRepo struct {
	repository.EmpresaRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Empresa, error)
}

func (m *mockEmpresaRepo) FindByID(ctx context.Context, id uint) (*models.Empresa, error) {
	return m.mockFindByID(ctx, id)
}

func newFichaService(fichaRepo *mockFichaRepo, empresaRepo *mockEmpresaRepo) *FichaService {
	if empresaRepo == nil {
		empresaRepo = &mockEmpresaRepo{}
	}
	return NewFichaService(fichaRepo, empresaRepo, newTestAudit())
}

func TestFichaService_Create_RequiresNome(t *testing.T) {
	service := newFichaService(&mockFichaRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo: models.FichaTipoInterna,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "nome é obrigatório")
}

func TestFichaService_Create_CargoClienteRequiredForCliente(t *testing.T) {
	service := newFichaService(&mockFichaRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo: models.FichaTipoCliente,
		Nome: "Maria Souza",
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "cargo_cliente é obrigatório")
}

func TestFichaService_Create_CargoClienteRejectedForInterna(t *testing.T) {
	service := newFichaService(&mockFichaRepo{}, nil)

	cargo := "Engenheira Fiscal"
	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo:         models.FichaTipoInterna,
		Nome:         "Maria Souza",
		CargoCliente: &cargo,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestFichaService_Create_RejectsInvalidEmail(t *testing.T) {
	service := newFichaService(&mockFichaRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo:  models.FichaTipoInterna,
		Nome:  "Maria Souza",
		Email: "not an email",
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "e-mail inválido")
}

func TestFichaService_Create_RejectsExperienciaWithoutEmpresa(t *testing.T) {
	service := newFichaService(&mockFichaRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo: models.FichaTipoInterna,
		Nome: "Maria Souza",
		Experiencias: []models.Experiencia{
			{Empresa: "", Cargo: "Engenheira"},
		},
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "experiência exige empresa e cargo")
}

func TestFichaService_Create_AssignsSubListUUIDs(t *testing.T) {
	mockRepo := &mockFichaRepo{}
	service := newFichaService(mockRepo, nil)

	var created *models.Ficha
	mockRepo.mockCreate = func(ctx context.Context, ficha *models.Ficha) error {
		ficha.ID = 7
		created = ficha
		return nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Ficha, error) {
		return created, nil
	}

	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo: models.FichaTipoInterna,
		Nome: "Maria Souza",
		Experiencias: []models.Experiencia{
			{Empresa: "ViaPlan", Cargo: "Engenheira"},
			{Empresa: "DER", Cargo: "Fiscal"},
		},
		Certificados: []models.Certificado{
			{Nome: "PMP"},
		},
	}, AuditEntry{})

	assert.NoError(t, err)
	assert.Len(t, created.Experiencias, 2)
	assert.NotEmpty(t, created.Experiencias[0].ID)
	assert.NotEmpty(t, created.Experiencias[1].ID)
	assert.NotEqual(t, created.Experiencias[0].ID, created.Experiencias[1].ID)
	assert.NotEmpty(t, created.Certificados[0].ID)
}

func TestFichaService_Create_ValidatesEmpresaExists(t *testing.T) {
	empresaRepo := &mockEmpresaRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Empresa, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newFichaService(&mockFichaRepo{}, empresaRepo)

	empresaID := uint(99)
	_, err := service.Create(context.Background(), &models.Ficha{
		Tipo:      models.FichaTipoInterna,
		Nome:      "Maria Souza",
		EmpresaID: &empresaID,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "empresa não encontrada")
}

func TestFichaService_GetByID_NotFound(t *testing.T) {
	mockRepo := &mockFichaRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Ficha, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newFichaService(mockRepo, nil)

	_, err := service.GetByID(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFichaToResponse_SubListsNeverNull(t *testing.T) {
	ficha := models.Ficha{ID: 1, Nome: "Maria Souza", Tipo: models.FichaTipoInterna}

	resp := ficha.ToResponse()

	assert.NotNil(t, resp.Experiencias)
	assert.NotNil(t, resp.Formacoes)
	assert.NotNil(t, resp.Certificados)
	assert.Empty(t, resp.Experiencias)
}
