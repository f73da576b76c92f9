package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// ProductService manages the document tree of a contract
type ProductService struct {
	productRepo repository.ProductRepository
	audit       *AuditService
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, audit *AuditService) *ProductService {
	return &ProductService{productRepo: productRepo, audit: audit}
}

// GetFolder returns a folder with its files
func (s *ProductService) GetFolder(ctx context.Context, id uint) (*models.ProductFolder, error) {
	folder, err := s.productRepo.FindFolder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return folder, nil
}

// ListFolders returns every folder of a contract. The client assembles
// the tree from parent_id references.
func (s *ProductService) ListFolders(ctx context.Context, contractID uint) ([]models.ProductFolder, error) {
	return s.productRepo.FindFoldersByContract(ctx, contractID)
}

// CreateFolder validates and persists a new folder
func (s *ProductService) CreateFolder(ctx context.Context, folder *models.ProductFolder, meta AuditEntry) (*models.ProductFolder, error) {
	if strings.TrimSpace(folder.Nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	if folder.ParentID != nil {
		parent, err := s.GetFolder(ctx, *folder.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: pasta pai não encontrada", ErrValidation)
			}
			return nil, err
		}
		if parent.ContractID != folder.ContractID {
			return nil, fmt.Errorf("%w: pasta pai pertence a outro contrato", ErrValidation)
		}
	}

	if err := s.productRepo.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "ProductFolder"
	meta.EntityID = folder.ID
	meta.ContractID = &folder.ContractID
	meta.Changes = folder
	s.audit.Record(meta)

	return folder, nil
}

// UpdateFolder renames or moves a folder. A move is rejected when the
// destination is the folder itself or one of its descendants.
func (s *ProductService) UpdateFolder(ctx context.Context, id uint, nome string, parentID *uint, meta AuditEntry) (*models.ProductFolder, error) {
	folder, err := s.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	if parentID != nil {
		if *parentID == id {
			return nil, fmt.Errorf("%w: uma pasta não pode ser movida para dentro de si mesma", ErrValidation)
		}
		dest, err := s.GetFolder(ctx, *parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: pasta de destino não encontrada", ErrValidation)
			}
			return nil, err
		}
		if dest.ContractID != folder.ContractID {
			return nil, fmt.Errorf("%w: pasta de destino pertence a outro contrato", ErrValidation)
		}
		isDescendant, err := s.isDescendant(ctx, folder.ContractID, id, *parentID)
		if err != nil {
			return nil, err
		}
		if isDescendant {
			return nil, fmt.Errorf("%w: uma pasta não pode ser movida para dentro de si mesma", ErrValidation)
		}
	}

	folder.Nome = nome
	folder.ParentID = parentID

	if err := s.productRepo.UpdateFolder(ctx, folder); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "ProductFolder"
	meta.EntityID = folder.ID
	meta.ContractID = &folder.ContractID
	meta.Changes = folder
	s.audit.Record(meta)

	return folder, nil
}

// DeleteFolder removes an empty folder. Folders with subfolders or files
// must be emptied first.
func (s *ProductService) DeleteFolder(ctx context.Context, id uint, meta AuditEntry) error {
	folder, err := s.GetFolder(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.productRepo.CountFolderChildren(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFolderNotEmpty
	}

	if err := s.productRepo.DeleteFolder(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "ProductFolder"
	meta.EntityID = id
	meta.ContractID = &folder.ContractID
	s.audit.Record(meta)

	return nil
}

// isDescendant walks up from candidate's ancestry to check whether
// folderID appears in it
func (s *ProductService) isDescendant(ctx context.Context, contractID, folderID, candidateID uint) (bool, error) {
	folders, err := s.productRepo.FindFoldersByContract(ctx, contractID)
	if err != nil {
		return false, err
	}

	parents := make(map[uint]*uint, len(folders))
	for _, f := range folders {
		parents[f.ID] = f.ParentID
	}

	seen := make(map[uint]bool)
	current := &candidateID
	for current != nil {
		if *current == folderID {
			return true, nil
		}
		if seen[*current] {
			break
		}
		seen[*current] = true
		current = parents[*current]
	}
	return false, nil
}

// GetFile returns a file record
func (s *ProductService) GetFile(ctx context.Context, id uint) (*models.ProductFile, error) {
	file, err := s.productRepo.FindFile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

// CreateFile records an uploaded file inside a folder
func (s *ProductService) CreateFile(ctx context.Context, file *models.ProductFile, meta AuditEntry) (*models.ProductFile, error) {
	folder, err := s.GetFolder(ctx, file.FolderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: pasta não encontrada", ErrValidation)
		}
		return nil, err
	}

	file.ContractID = folder.ContractID
	file.UploadedBy = meta.UserID

	if err := s.productRepo.CreateFile(ctx, file); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "ProductFile"
	meta.EntityID = file.ID
	meta.ContractID = &file.ContractID
	meta.Changes = file
	s.audit.Record(meta)

	return file, nil
}

// UpdateFile renames a file and optionally moves it to another folder
// of the same contract
func (s *ProductService) UpdateFile(ctx context.Context, id uint, nome string, folderID *uint, meta AuditEntry) (*models.ProductFile, error) {
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	if nome != "" {
		file.Nome = nome
	}
	if folderID != nil && *folderID != file.FolderID {
		folder, err := s.GetFolder(ctx, *folderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: pasta de destino não encontrada", ErrValidation)
			}
			return nil, err
		}
		if folder.ContractID != file.ContractID {
			return nil, fmt.Errorf("%w: pasta de destino pertence a outro contrato", ErrValidation)
		}
		file.FolderID = *folderID
	}

	if err := s.productRepo.UpdateFile(ctx, file); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "ProductFile"
	meta.EntityID = file.ID
	meta.ContractID = &file.ContractID
	meta.Changes = file
	s.audit.Record(meta)

	return file, nil
}

// DeleteFile removes a file record and returns its storage path so the
// caller can delete the blob
func (s *ProductService) DeleteFile(ctx context.Context, id uint, meta AuditEntry) (string, error) {
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.productRepo.DeleteFile(ctx, id); err != nil {
		return "", err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "ProductFile"
	meta.EntityID = id
	meta.ContractID = &file.ContractID
	s.audit.Record(meta)

	return file.StoragePath, nil
}
