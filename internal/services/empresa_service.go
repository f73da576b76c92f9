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

// EmpresaService handles company operations
type EmpresaService struct {
	empresaRepo repository.EmpresaRepository
	audit       *AuditService
}

// NewEmpresaService creates a new empresa service
func NewEmpresaService(empresaRepo repository.EmpresaRepository, audit *AuditService) *EmpresaService {
	return &EmpresaService{empresaRepo: empresaRepo, audit: audit}
}

// GetByID returns a company
func (s *EmpresaService) GetByID(ctx context.Context, id uint) (*models.Empresa, error) {
	empresa, err := s.empresaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return empresa, nil
}

// List returns companies filtered and paginated
func (s *EmpresaService) List(ctx context.Context, query *repository.ListQuery) ([]models.Empresa, int64, error) {
	return s.empresaRepo.List(ctx, query)
}

// Create validates and persists a new company
func (s *EmpresaService) Create(ctx context.Context, empresa *models.Empresa, meta AuditEntry) (*models.Empresa, error) {
	if err := validateEmpresa(empresa); err != nil {
		return nil, err
	}

	if err := s.empresaRepo.Create(ctx, empresa); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Empresa"
	meta.EntityID = empresa.ID
	meta.Changes = empresa
	s.audit.Record(meta)

	return empresa, nil
}

// Update validates and persists changes to a company
func (s *EmpresaService) Update(ctx context.Context, id uint, empresa *models.Empresa, meta AuditEntry) (*models.Empresa, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	empresa.ID = existing.ID
	empresa.CreatedAt = existing.CreatedAt

	if err := validateEmpresa(empresa); err != nil {
		return nil, err
	}

	if err := s.empresaRepo.Update(ctx, empresa); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Empresa"
	meta.EntityID = empresa.ID
	meta.Changes = empresa
	s.audit.Record(meta)

	return empresa, nil
}

// Delete removes a company
func (s *EmpresaService) Delete(ctx context.Context, id uint, meta AuditEntry) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.empresaRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Empresa"
	meta.EntityID = id
	s.audit.Record(meta)

	return nil
}

func validateEmpresa(empresa *models.Empresa) error {
	if strings.TrimSpace(empresa.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}
	if !models.ValidEmpresaTipo(empresa.Tipo) {
		return fmt.Errorf("%w: tipo deve ser CLIENTE, FORNECEDOR ou PARCEIRA", ErrValidation)
	}
	if !models.ValidCNPJ(empresa.CNPJ) {
		return fmt.Errorf("%w: CNPJ inválido", ErrValidation)
	}
	return nil
}
