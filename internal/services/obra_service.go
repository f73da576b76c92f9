package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/geo"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/statemachine"
	"github.com/viaplan/viaplan-api/pkg/logger"
)

// ObraService handles road works and their non-conformities
type ObraService struct {
	obraRepo repository.ObraRepository
	ncRepo   repository.NonConformityRepository
	geo      *geo.Client
	audit    *AuditService
}

// NewObraService creates a new obra service
func NewObraService(obraRepo repository.ObraRepository, ncRepo repository.NonConformityRepository, geoClient *geo.Client, audit *AuditService) *ObraService {
	return &ObraService{
		obraRepo: obraRepo,
		ncRepo:   ncRepo,
		geo:      geoClient,
		audit:    audit,
	}
}

// GetByID returns an obra
func (s *ObraService) GetByID(ctx context.Context, id uint) (*models.Obra, error) {
	obra, err := s.obraRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return obra, nil
}

// ListByContract returns the obras of a contract
func (s *ObraService) ListByContract(ctx context.Context, contractID uint) ([]models.Obra, error) {
	return s.obraRepo.FindByContract(ctx, contractID)
}

// Create validates and persists a new obra
func (s *ObraService) Create(ctx context.Context, obra *models.Obra, meta AuditEntry) (*models.Obra, error) {
	if err := validateObra(obra); err != nil {
		return nil, err
	}

	if err := s.obraRepo.Create(ctx, obra); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Obra"
	meta.EntityID = obra.ID
	meta.ContractID = &obra.ContractID
	meta.Changes = obra
	s.audit.Record(meta)

	return obra, nil
}

// Update validates and persists changes to an obra
func (s *ObraService) Update(ctx context.Context, id uint, in *models.Obra, meta AuditEntry) (*models.Obra, error) {
	obra, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ID = obra.ID
	in.ContractID = obra.ContractID
	in.CreatedAt = obra.CreatedAt

	if err := validateObra(in); err != nil {
		return nil, err
	}

	if err := s.obraRepo.Update(ctx, in); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Obra"
	meta.EntityID = in.ID
	meta.ContractID = &in.ContractID
	meta.Changes = in
	s.audit.Record(meta)

	return in, nil
}

// Delete removes an obra and its non-conformities
func (s *ObraService) Delete(ctx context.Context, id uint, meta AuditEntry) error {
	obra, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.obraRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Obra"
	meta.EntityID = id
	meta.ContractID = &obra.ContractID
	s.audit.Record(meta)

	return nil
}

func validateObra(obra *models.Obra) error {
	if strings.TrimSpace(obra.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}
	if obra.KmFinal <= obra.KmInicial {
		return fmt.Errorf("%w: km final deve ser maior que o km inicial", ErrValidation)
	}
	return nil
}

// GetNonConformity returns a non-conformity with its photos
func (s *ObraService) GetNonConformity(ctx context.Context, id uint) (*models.NonConformity, error) {
	nc, err := s.ncRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return nc, nil
}

// ListNonConformities returns the non-conformities of an obra
func (s *ObraService) ListNonConformities(ctx context.Context, obraID uint, query *repository.NonConformityQuery) ([]models.NonConformity, error) {
	if _, err := s.GetByID(ctx, obraID); err != nil {
		return nil, err
	}
	return s.ncRepo.FindByObra(ctx, obraID, query)
}

// ListContractNonConformities returns every non-conformity under a contract
func (s *ObraService) ListContractNonConformities(ctx context.Context, contractID uint, query *repository.NonConformityQuery) ([]models.NonConformity, error) {
	return s.ncRepo.FindByContract(ctx, contractID, query)
}

// CreateNonConformity validates and persists a new non-conformity. The
// km must fall within the obra's range.
func (s *ObraService) CreateNonConformity(ctx context.Context, nc *models.NonConformity, meta AuditEntry) (*models.NonConformity, error) {
	obra, err := s.GetByID(ctx, nc.ObraID)
	if err != nil {
		return nil, err
	}

	if err := s.validateNonConformity(obra, nc); err != nil {
		return nil, err
	}

	nc.Status = models.NCStatusAberta

	if err := s.ncRepo.Create(ctx, nc); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "NonConformity"
	meta.EntityID = nc.ID
	meta.ContractID = &obra.ContractID
	meta.Changes = nc
	s.audit.Record(meta)

	return s.GetNonConformity(ctx, nc.ID)
}

// UpdateNonConformity persists changes to a non-conformity's descriptive
// fields. Status changes go through TransitionNonConformity.
func (s *ObraService) UpdateNonConformity(ctx context.Context, id uint, in *models.NonConformity, meta AuditEntry) (*models.NonConformity, error) {
	nc, err := s.GetNonConformity(ctx, id)
	if err != nil {
		return nil, err
	}

	obra, err := s.GetByID(ctx, nc.ObraID)
	if err != nil {
		return nil, err
	}

	in.ID = nc.ID
	in.ObraID = nc.ObraID
	in.Status = nc.Status
	in.CreatedAt = nc.CreatedAt

	if err := s.validateNonConformity(obra, in); err != nil {
		return nil, err
	}

	if err := s.ncRepo.Update(ctx, in); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "NonConformity"
	meta.EntityID = in.ID
	meta.ContractID = &obra.ContractID
	meta.Changes = in
	s.audit.Record(meta)

	return s.GetNonConformity(ctx, id)
}

// DeleteNonConformity removes a non-conformity and its photo records
func (s *ObraService) DeleteNonConformity(ctx context.Context, id uint, meta AuditEntry) error {
	nc, err := s.GetNonConformity(ctx, id)
	if err != nil {
		return err
	}

	obra, err := s.GetByID(ctx, nc.ObraID)
	if err != nil {
		return err
	}

	if err := s.ncRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "NonConformity"
	meta.EntityID = id
	meta.ContractID = &obra.ContractID
	s.audit.Record(meta)

	return nil
}

// TransitionNonConformity applies a status event (analyze, resolve,
// cancel) through the state machine
func (s *ObraService) TransitionNonConformity(ctx context.Context, id uint, event string, meta AuditEntry) (*models.NonConformity, error) {
	nc, err := s.GetNonConformity(ctx, id)
	if err != nil {
		return nil, err
	}

	obra, err := s.GetByID(ctx, nc.ObraID)
	if err != nil {
		return nil, err
	}

	from := nc.Status
	fsm := statemachine.NewNonConformityFSM(nc)

	switch event {
	case "analyze":
		err = fsm.Analyze(ctx)
	case "resolve":
		err = fsm.Resolve(ctx)
	case "cancel":
		err = fsm.Cancel(ctx)
	default:
		return nil, fmt.Errorf("%w: evento desconhecido: %s", ErrValidation, event)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.ncRepo.Update(ctx, nc); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionStatusChange
	meta.Entity = "NonConformity"
	meta.EntityID = nc.ID
	meta.ContractID = &obra.ContractID
	meta.Changes = map[string]string{"from": from, "to": nc.Status}
	s.audit.Record(meta)

	return s.GetNonConformity(ctx, id)
}

// AddNonConformityPhoto attaches an uploaded photo to a non-conformity
func (s *ObraService) AddNonConformityPhoto(ctx context.Context, ncID uint, url, storagePath string) (*models.NCPhoto, error) {
	if _, err := s.GetNonConformity(ctx, ncID); err != nil {
		return nil, err
	}

	photo := &models.NCPhoto{
		ID:              uuid.NewString(),
		NonConformityID: ncID,
		URL:             url,
		StoragePath:     storagePath,
	}
	if err := s.ncRepo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// RemoveNonConformityPhoto detaches a photo and returns its storage path
// so the caller can delete the blob
func (s *ObraService) RemoveNonConformityPhoto(ctx context.Context, photoID string) (string, error) {
	photo, err := s.ncRepo.FindPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if err := s.ncRepo.DeletePhoto(ctx, photoID); err != nil {
		return "", err
	}
	return photo.StoragePath, nil
}

func (s *ObraService) validateNonConformity(obra *models.Obra, nc *models.NonConformity) error {
	if strings.TrimSpace(nc.Descricao) == "" {
		return fmt.Errorf("%w: descrição é obrigatória", ErrValidation)
	}
	if !models.ValidSeverity(nc.Severidade) {
		return fmt.Errorf("%w: severidade deve ser BAIXA, MEDIA, ALTA ou CRITICA", ErrValidation)
	}
	if !obra.ContainsKM(nc.Km) {
		return fmt.Errorf("%w: km %.3f fora do trecho da obra (%.3f a %.3f)",
			ErrValidation, nc.Km, obra.KmInicial, obra.KmFinal)
	}
	return nil
}

// KMLocation proxies a km point lookup to the geometry service
func (s *ObraService) KMLocation(ctx context.Context, rodovia, uf string, km float64) (*geo.KMLocation, error) {
	loc, err := s.geo.KMLocation(ctx, rodovia, uf, km)
	if err != nil {
		logger.Error(fmt.Sprintf("geometry service km-location failed: %v", err))
		return nil, ErrUpstream
	}
	return loc, nil
}

// CoordinatesFromKM proxies a coordinate lookup to the geometry service
func (s *ObraService) CoordinatesFromKM(ctx context.Context, rodovia, uf string, km float64) (*geo.Coordinates, error) {
	coords, err := s.geo.CoordinatesFromKM(ctx, rodovia, uf, km)
	if err != nil {
		logger.Error(fmt.Sprintf("geometry service coordinates-from-km failed: %v", err))
		return nil, ErrUpstream
	}
	return coords, nil
}
