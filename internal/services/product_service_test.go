package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

type mockProductRepo struct {
	repository.ProductRepository
	folders          map[uint]*models.ProductFolder
	mockCountChilden func(ctx context.Context, folderID uint) (int64, error)
	mockUpdateFolder func(ctx context.Context, folder *models.ProductFolder) error
	mockDeleteFolder func(ctx context.Context, id uint) error
}

func (m *mockProductRepo) FindFolder(ctx context.Context, id uint) (*models.ProductFolder, error) {
	if folder, ok := m.folders[id]; ok {
		return folder, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindFoldersByContract(ctx context.Context, contractID uint) ([]models.ProductFolder, error) {
	var out []models.ProductFolder
	for _, f := range m.folders {
		if f.ContractID == contractID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *mockProductRepo) UpdateFolder(ctx context.Context, folder *models.ProductFolder) error {
	if m.mockUpdateFolder != nil {
		return m.mockUpdateFolder(ctx, folder)
	}
	return nil
}

func (m *mockProductRepo) DeleteFolder(ctx context.Context, id uint) error {
	if m.mockDeleteFolder != nil {
		return m.mockDeleteFolder(ctx, id)
	}
	return nil
}

func (m *mockProductRepo) CountFolderChildren(ctx context.Context, folderID uint) (int64, error) {
	return m.mockCountChilden(ctx, folderID)
}

// folderTree builds: raiz(1) > sub(2) > neto(3), all on contract 1
func folderTree() *mockProductRepo {
	parent1 := uint(1)
	parent2 := uint(2)
	return &mockProductRepo{
		folders: map[uint]*models.ProductFolder{
			1: {ID: 1, ContractID: 1, Nome: "raiz"},
			2: {ID: 2, ContractID: 1, ParentID: &parent1, Nome: "sub"},
			3: {ID: 3, ContractID: 1, ParentID: &parent2, Nome: "neto"},
		},
	}
}

func TestProductService_UpdateFolder_RejectsSelfMove(t *testing.T) {
	service := NewProductService(folderTree(), newTestAudit())

	dest := uint(1)
	_, err := service.UpdateFolder(context.Background(), 1, "raiz", &dest, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "dentro de si mesma")
}

func TestProductService_UpdateFolder_RejectsMoveIntoDescendant(t *testing.T) {
	service := NewProductService(folderTree(), newTestAudit())

	dest := uint(3)
	_, err := service.UpdateFolder(context.Background(), 1, "raiz", &dest, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "dentro de si mesma")
}

func TestProductService_UpdateFolder_AllowsValidMove(t *testing.T) {
	repo := folderTree()
	service := NewProductService(repo, newTestAudit())

	dest := uint(1)
	folder, err := service.UpdateFolder(context.Background(), 3, "neto", &dest, AuditEntry{})

	assert.NoError(t, err)
	assert.Equal(t, dest, *folder.ParentID)
}

func TestProductService_UpdateFolder_RenameWithoutMove(t *testing.T) {
	service := NewProductService(folderTree(), newTestAudit())

	folder, err := service.UpdateFolder(context.Background(), 2, "documentos", nil, AuditEntry{})

	assert.NoError(t, err)
	assert.Equal(t, "documentos", folder.Nome)
	assert.Nil(t, folder.ParentID)
}

func TestProductService_DeleteFolder_RejectsNonEmpty(t *testing.T) {
	repo := folderTree()
	repo.mockCountChilden = func(ctx context.Context, folderID uint) (int64, error) {
		return 2, nil
	}
	service := NewProductService(repo, newTestAudit())

	err := service.DeleteFolder(context.Background(), 1, AuditEntry{})
	assert.ErrorIs(t, err, ErrFolderNotEmpty)
}

func TestProductService_DeleteFolder_Empty(t *testing.T) {
	repo := folderTree()
	repo.mockCountChilden = func(ctx context.Context, folderID uint) (int64, error) {
		return 0, nil
	}
	service := NewProductService(repo, newTestAudit())

	err := service.DeleteFolder(context.Background(), 3, AuditEntry{})
	assert.NoError(t, err)
}

func TestProductService_CreateFolder_ParentMustMatchContract(t *testing.T) {
	repo := folderTree()
	service := NewProductService(repo, newTestAudit())

	parent := uint(1)
	_, err := service.CreateFolder(context.Background(), &models.ProductFolder{
		ContractID: 2,
		ParentID:   &parent,
		Nome:       "alheia",
	}, AuditEntry{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "outro contrato")
}

func TestProductService_GetFolder_NotFound(t *testing.T) {
	service := NewProductService(folderTree(), newTestAudit())

	_, err := service.GetFolder(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
