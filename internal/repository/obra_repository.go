package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// ObraRepository defines the interface for obra data access
type ObraRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Obra, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.Obra, error)
	Create(ctx context.Context, obra *models.Obra) error
	Update(ctx context.Context, obra *models.Obra) error
	Delete(ctx context.Context, id uint) error
}

type obraRepository struct {
	db *gorm.DB
}

// NewObraRepository creates a new obra repository
func NewObraRepository(db *gorm.DB) ObraRepository {
	return &obraRepository{db: db}
}

func (r *obraRepository) FindByID(ctx context.Context, id uint) (*models.Obra, error) {
	var obra models.Obra
	err := r.db.WithContext(ctx).First(&obra, id).Error
	if err != nil {
		return nil, err
	}
	return &obra, nil
}

func (r *obraRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Obra, error) {
	var obras []models.Obra
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&obras).Error
	return obras, err
}

func (r *obraRepository) Create(ctx context.Context, obra *models.Obra) error {
	return r.db.WithContext(ctx).Create(obra).Error
}

func (r *obraRepository) Update(ctx context.Context, obra *models.Obra) error {
	return r.db.WithContext(ctx).Save(obra).Error
}

func (r *obraRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Obra{}, id).Error
}

// NonConformityRepository defines the interface for non-conformity data access
type NonConformityRepository interface {
	FindByID(ctx context.Context, id uint) (*models.NonConformity, error)
	FindByObra(ctx context.Context, obraID uint, query *NonConformityQuery) ([]models.NonConformity, error)
	FindByContract(ctx context.Context, contractID uint, query *NonConformityQuery) ([]models.NonConformity, error)
	Create(ctx context.Context, nc *models.NonConformity) error
	Update(ctx context.Context, nc *models.NonConformity) error
	Delete(ctx context.Context, id uint) error
	AddPhoto(ctx context.Context, photo *models.NCPhoto) error
	DeletePhoto(ctx context.Context, id string) error
	FindPhoto(ctx context.Context, id string) (*models.NCPhoto, error)
}

// NonConformityQuery filters non-conformity listings
type NonConformityQuery struct {
	Status     string
	Severidade string
}

type nonConformityRepository struct {
	db *gorm.DB
}

// NewNonConformityRepository creates a new non-conformity repository
func NewNonConformityRepository(db *gorm.DB) NonConformityRepository {
	return &nonConformityRepository{db: db}
}

func (r *nonConformityRepository) FindByID(ctx context.Context, id uint) (*models.NonConformity, error) {
	var nc models.NonConformity
	err := r.db.WithContext(ctx).
		Preload("Fotos").
		First(&nc, id).Error
	if err != nil {
		return nil, err
	}
	return &nc, nil
}

func (r *nonConformityRepository) FindByObra(ctx context.Context, obraID uint, query *NonConformityQuery) ([]models.NonConformity, error) {
	var ncs []models.NonConformity
	db := r.db.WithContext(ctx).Where("obra_id = ?", obraID)
	db = applyNCFilters(db, query)
	err := db.Preload("Fotos").Order("created_at DESC").Find(&ncs).Error
	return ncs, err
}

func (r *nonConformityRepository) FindByContract(ctx context.Context, contractID uint, query *NonConformityQuery) ([]models.NonConformity, error) {
	var ncs []models.NonConformity
	db := r.db.WithContext(ctx).
		Where("obra_id IN (SELECT id FROM obras WHERE contract_id = ?)", contractID)
	db = applyNCFilters(db, query)
	err := db.Preload("Fotos").Order("created_at DESC").Find(&ncs).Error
	return ncs, err
}

func applyNCFilters(db *gorm.DB, query *NonConformityQuery) *gorm.DB {
	if query == nil {
		return db
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Severidade != "" {
		db = db.Where("severidade = ?", query.Severidade)
	}
	return db
}

func (r *nonConformityRepository) Create(ctx context.Context, nc *models.NonConformity) error {
	return r.db.WithContext(ctx).Create(nc).Error
}

func (r *nonConformityRepository) Update(ctx context.Context, nc *models.NonConformity) error {
	return r.db.WithContext(ctx).Omit("Fotos").Save(nc).Error
}

func (r *nonConformityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.NonConformity{}, id).Error
}

func (r *nonConformityRepository) AddPhoto(ctx context.Context, photo *models.NCPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *nonConformityRepository) DeletePhoto(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NCPhoto{}).Error
}

func (r *nonConformityRepository) FindPhoto(ctx context.Context, id string) (*models.NCPhoto, error) {
	var photo models.NCPhoto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
