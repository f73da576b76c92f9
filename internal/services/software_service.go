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

// SoftwareService handles the software inventory of contracts
type SoftwareService struct {
	softwareRepo repository.SoftwareRepository
	audit        *AuditService
}

// NewSoftwareService creates a new software service
func NewSoftwareService(softwareRepo repository.SoftwareRepository, audit *AuditService) *SoftwareService {
	return &SoftwareService{softwareRepo: softwareRepo, audit: audit}
}

// GetByID returns a software entry with its comment thread
func (s *SoftwareService) GetByID(ctx context.Context, id uint) (*models.Software, error) {
	software, err := s.softwareRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return software, nil
}

// ListByContract returns the software entries of a contract
func (s *SoftwareService) ListByContract(ctx context.Context, contractID uint) ([]models.Software, error) {
	return s.softwareRepo.FindByContract(ctx, contractID)
}

// Create validates and persists a new software entry
func (s *SoftwareService) Create(ctx context.Context, software *models.Software, meta AuditEntry) (*models.Software, error) {
	if strings.TrimSpace(software.Nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	software.CreatedBy = meta.UserID

	if err := s.softwareRepo.Create(ctx, software); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Software"
	meta.EntityID = software.ID
	meta.ContractID = &software.ContractID
	meta.Changes = software
	s.audit.Record(meta)

	return software, nil
}

// Update validates and persists changes to a software entry
func (s *SoftwareService) Update(ctx context.Context, id uint, in *models.Software, meta AuditEntry) (*models.Software, error) {
	software, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	in.ID = software.ID
	in.ContractID = software.ContractID
	in.CreatedBy = software.CreatedBy
	in.CreatedAt = software.CreatedAt

	if err := s.softwareRepo.Update(ctx, in); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Software"
	meta.EntityID = in.ID
	meta.ContractID = &in.ContractID
	meta.Changes = in
	s.audit.Record(meta)

	return s.GetByID(ctx, id)
}

// Delete removes a software entry and its comments
func (s *SoftwareService) Delete(ctx context.Context, id uint, meta AuditEntry) error {
	software, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.softwareRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Software"
	meta.EntityID = id
	meta.ContractID = &software.ContractID
	s.audit.Record(meta)

	return nil
}

// AddComment posts a comment on a software entry. Replies must point at
// a top-level comment of the same entry; threading is one level deep.
func (s *SoftwareService) AddComment(ctx context.Context, softwareID uint, comment *models.SoftwareComment) (*models.SoftwareComment, error) {
	if _, err := s.GetByID(ctx, softwareID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(comment.Texto) == "" {
		return nil, fmt.Errorf("%w: texto é obrigatório", ErrValidation)
	}

	if comment.ParentCommentID != nil {
		parent, err := s.softwareRepo.FindComment(ctx, *comment.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: comentário pai não encontrado", ErrValidation)
			}
			return nil, err
		}
		if parent.SoftwareID != softwareID {
			return nil, fmt.Errorf("%w: comentário pai pertence a outro software", ErrValidation)
		}
		if parent.ParentCommentID != nil {
			return nil, fmt.Errorf("%w: respostas a respostas não são permitidas", ErrValidation)
		}
	}

	comment.SoftwareID = softwareID

	if err := s.softwareRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the author or an admin may
// delete; replies go with their parent.
func (s *SoftwareService) DeleteComment(ctx context.Context, commentID, userID uint, isAdmin bool) error {
	comment, err := s.softwareRepo.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !isAdmin && comment.AuthorID != userID {
		return ErrForbidden
	}

	return s.softwareRepo.DeleteComment(ctx, commentID)
}
