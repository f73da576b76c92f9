package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// FichaService handles person record operations
type FichaService struct {
	fichaRepo   repository.FichaRepository
	empresaRepo repository.EmpresaRepository
	audit       *AuditService
}

// NewFichaService creates a new ficha service
func NewFichaService(fichaRepo repository.FichaRepository, empresaRepo repository.EmpresaRepository, audit *AuditService) *FichaService {
	return &FichaService{
		fichaRepo:   fichaRepo,
		empresaRepo: empresaRepo,
		audit:       audit,
	}
}

// GetByID returns a ficha with its sub-lists loaded
func (s *FichaService) GetByID(ctx context.Context, id uint) (*models.Ficha, error) {
	ficha, err := s.fichaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ficha, nil
}

// List returns fichas filtered and paginated
func (s *FichaService) List(ctx context.Context, query *repository.ListQuery) ([]models.Ficha, int64, error) {
	return s.fichaRepo.List(ctx, query)
}

// Create validates and persists a new ficha. Sub-list entries receive
// server-generated UUIDs.
func (s *FichaService) Create(ctx context.Context, ficha *models.Ficha, meta AuditEntry) (*models.Ficha, error) {
	if err := s.validate(ctx, ficha); err != nil {
		return nil, err
	}

	assignSubListIDs(ficha)

	if err := s.fichaRepo.Create(ctx, ficha); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Ficha"
	meta.EntityID = ficha.ID
	meta.Changes = ficha.ToResponse()
	s.audit.Record(meta)

	return s.fichaRepo.FindByID(ctx, ficha.ID)
}

// Update validates and persists changes to a ficha, replacing its
// sub-lists wholesale
func (s *FichaService) Update(ctx context.Context, id uint, ficha *models.Ficha, meta AuditEntry) (*models.Ficha, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ficha.ID = existing.ID
	ficha.CreatedAt = existing.CreatedAt

	if err := s.validate(ctx, ficha); err != nil {
		return nil, err
	}

	assignSubListIDs(ficha)

	if err := s.fichaRepo.Update(ctx, ficha); err != nil {
		return nil, err
	}
	if err := s.fichaRepo.ReplaceSubLists(ctx, ficha); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Ficha"
	meta.EntityID = ficha.ID
	meta.Changes = ficha.ToResponse()
	s.audit.Record(meta)

	return s.fichaRepo.FindByID(ctx, id)
}

// Delete removes a ficha and its sub-lists
func (s *FichaService) Delete(ctx context.Context, id uint, meta AuditEntry) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.fichaRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Ficha"
	meta.EntityID = id
	s.audit.Record(meta)

	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s()+-]{8,20}$`)
)

func (s *FichaService) validate(ctx context.Context, ficha *models.Ficha) error {
	if strings.TrimSpace(ficha.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	if ficha.Email != "" && !emailPattern.MatchString(ficha.Email) {
		return fmt.Errorf("%w: e-mail inválido", ErrValidation)
	}
	if ficha.Telefone != "" && !phonePattern.MatchString(ficha.Telefone) {
		return fmt.Errorf("%w: telefone inválido", ErrValidation)
	}
	if ficha.Celular != "" && !phonePattern.MatchString(ficha.Celular) {
		return fmt.Errorf("%w: celular inválido", ErrValidation)
	}

	switch ficha.Tipo {
	case models.FichaTipoInterna:
		if ficha.CargoCliente != nil {
			return fmt.Errorf("%w: cargo_cliente só se aplica a fichas de cliente", ErrValidation)
		}
	case models.FichaTipoCliente:
		if ficha.CargoCliente == nil || strings.TrimSpace(*ficha.CargoCliente) == "" {
			return fmt.Errorf("%w: cargo_cliente é obrigatório para fichas de cliente", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: tipo deve ser INTERNA ou CLIENTE", ErrValidation)
	}

	if ficha.EmpresaID != nil {
		if _, err := s.empresaRepo.FindByID(ctx, *ficha.EmpresaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: empresa não encontrada", ErrValidation)
			}
			return err
		}
	}

	for _, exp := range ficha.Experiencias {
		if strings.TrimSpace(exp.Empresa) == "" || strings.TrimSpace(exp.Cargo) == "" {
			return fmt.Errorf("%w: experiência exige empresa e cargo", ErrValidation)
		}
	}
	for _, f := range ficha.Formacoes {
		if strings.TrimSpace(f.Instituicao) == "" || strings.TrimSpace(f.Curso) == "" {
			return fmt.Errorf("%w: formação exige instituição e curso", ErrValidation)
		}
	}
	for _, c := range ficha.Certificados {
		if strings.TrimSpace(c.Nome) == "" {
			return fmt.Errorf("%w: certificado exige nome", ErrValidation)
		}
	}

	return nil
}

// assignSubListIDs gives every sub-list entry a UUID when it does not
// already have one, and stamps the owning ficha id
func assignSubListIDs(ficha *models.Ficha) {
	for i := range ficha.Experiencias {
		if ficha.Experiencias[i].ID == "" {
			ficha.Experiencias[i].ID = uuid.NewString()
		}
		ficha.Experiencias[i].FichaID = ficha.ID
	}
	for i := range ficha.Formacoes {
		if ficha.Formacoes[i].ID == "" {
			ficha.Formacoes[i].ID = uuid.NewString()
		}
		ficha.Formacoes[i].FichaID = ficha.ID
	}
	for i := range ficha.Certificados {
		if ficha.Certificados[i].ID == "" {
			ficha.Certificados[i].ID = uuid.NewString()
		}
		ficha.Certificados[i].FichaID = ficha.ID
	}
}
