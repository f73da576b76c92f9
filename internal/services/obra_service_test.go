package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

type mockObraRepo struct {
	repository.ObraRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Obra, error)
	mockCreate   func(ctx context.Context, obra *models.Obra) error
}

func (m *mockObraRepo) FindByID(ctx context.Context, id uint) (*models.Obra, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockObraRepo) Create(ctx context.Context, obra *models.Obra) error {
	return m.mockCreate(ctx, obra)
}

type mockNCRepo struct {
	repository.NonConformityRepository
	mockFindByID func(ctx context.Context, id uint) (*models.NonConformity, error)
	mockCreate   func(ctx context.Context, nc *models.NonConformity) error
	mockUpdate   func(ctx context.Context, nc *models.NonConformity) error
}

func (m *mockNCRepo) FindByID(ctx context.Context, id uint) (*models.NonConformity, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockNCRepo) Create(ctx context.Context, nc *models.NonConformity) error {
	return m.mockCreate(ctx, nc)
}

func (m *mockNCRepo) Update(ctx context.Context, nc *models.NonConformity) error {
	return m.mockUpdate(ctx, nc)
}

func br381(id uint) *models.Obra {
	return &models.Obra{
		ID:         id,
		ContractID: 1,
		Nome:       "Duplicação BR-381",
		UF:         "MG",
		Rodovia:    "BR-381",
		KmInicial:  100,
		KmFinal:    150,
	}
}

func newObraService(obraRepo *mockObraRepo, ncRepo *mockNCRepo) *ObraService {
	if ncRepo == nil {
		ncRepo = &mockNCRepo{}
	}
	return NewObraService(obraRepo, ncRepo, nil, newTestAudit())
}

func TestObraService_Create_RejectsInvertedKmRange(t *testing.T) {
	service := newObraService(&mockObraRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Obra{
		ContractID: 1,
		Nome:       "Trecho invertido",
		KmInicial:  150,
		KmFinal:    100,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "km final deve ser maior que o km inicial")
}

func TestObraService_Create_RejectsZeroLengthSegment(t *testing.T) {
	service := newObraService(&mockObraRepo{}, nil)

	_, err := service.Create(context.Background(), &models.Obra{
		ContractID: 1,
		Nome:       "Trecho vazio",
		KmInicial:  100,
		KmFinal:    100,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestObraService_CreateNonConformity_KmOutOfRange(t *testing.T) {
	obraRepo := &mockObraRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Obra, error) {
			return br381(id), nil
		},
	}
	service := newObraService(obraRepo, nil)

	_, err := service.CreateNonConformity(context.Background(), &models.NonConformity{
		ObraID:     1,
		Km:         180.5,
		Descricao:  "Trinca longitudinal",
		Severidade: models.SeverityAlta,
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "fora do trecho da obra")
}

func TestObraService_CreateNonConformity_ForcesStatusAberta(t *testing.T) {
	obraRepo := &mockObraRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Obra, error) {
			return br381(id), nil
		},
	}
	var created *models.NonConformity
	ncRepo := &mockNCRepo{
		mockCreate: func(ctx context.Context, nc *models.NonConformity) error {
			nc.ID = 5
			created = nc
			return nil
		},
		mockFindByID: func(ctx context.Context, id uint) (*models.NonConformity, error) {
			return created, nil
		},
	}
	service := newObraService(obraRepo, ncRepo)

	nc, err := service.CreateNonConformity(context.Background(), &models.NonConformity{
		ObraID:     1,
		Km:         120,
		Descricao:  "Erosão no acostamento",
		Severidade: models.SeverityMedia,
		Status:     models.NCStatusResolvida, // client cannot pick the status
	}, AuditEntry{})

	assert.NoError(t, err)
	assert.Equal(t, models.NCStatusAberta, nc.Status)
}

func TestObraService_CreateNonConformity_InvalidSeverity(t *testing.T) {
	obraRepo := &mockObraRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Obra, error) {
			return br381(id), nil
		},
	}
	service := newObraService(obraRepo, nil)

	_, err := service.CreateNonConformity(context.Background(), &models.NonConformity{
		ObraID:     1,
		Km:         120,
		Descricao:  "Defeito",
		Severidade: "GRAVE",
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestObraService_TransitionNonConformity_GuardsFSM(t *testing.T) {
	obraRepo := &mockObraRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Obra, error) {
			return br381(id), nil
		},
	}
	nc := &models.NonConformity{ID: 5, ObraID: 1, Status: models.NCStatusAberta}
	ncRepo := &mockNCRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.NonConformity, error) {
			return nc, nil
		},
		mockUpdate: func(ctx context.Context, n *models.NonConformity) error {
			return nil
		},
	}
	service := newObraService(obraRepo, ncRepo)
	ctx := context.Background()

	// ABERTA cannot resolve directly
	_, err := service.TransitionNonConformity(ctx, 5, "resolve", AuditEntry{})
	assert.ErrorIs(t, err, ErrInvalidState)

	// ABERTA -> EM_ANALISE -> RESOLVIDA
	result, err := service.TransitionNonConformity(ctx, 5, "analyze", AuditEntry{})
	assert.NoError(t, err)
	assert.Equal(t, models.NCStatusEmAnalise, result.Status)

	result, err = service.TransitionNonConformity(ctx, 5, "resolve", AuditEntry{})
	assert.NoError(t, err)
	assert.Equal(t, models.NCStatusResolvida, result.Status)

	// RESOLVIDA is terminal
	_, err = service.TransitionNonConformity(ctx, 5, "cancel", AuditEntry{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestObraService_GetByID_NotFound(t *testing.T) {
	obraRepo := &mockObraRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Obra, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newObraService(obraRepo, nil)

	_, err := service.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
