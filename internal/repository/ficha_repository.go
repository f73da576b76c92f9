package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// FichaRepository defines the interface for ficha data access
type FichaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Ficha, error)
	Create(ctx context.Context, ficha *models.Ficha) error
	Update(ctx context.Context, ficha *models.Ficha) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Ficha, int64, error)
	ReplaceSubLists(ctx context.Context, ficha *models.Ficha) error
}

// fichaSortColumns whitelists the columns a client may sort fichas by
var fichaSortColumns = map[string]string{
	"nome":       "nome",
	"tipo":       "tipo",
	"cpf":        "cpf",
	"email":      "email",
	"created_at": "created_at",
}

type fichaRepository struct {
	db *gorm.DB
}

// NewFichaRepository creates a new ficha repository
func NewFichaRepository(db *gorm.DB) FichaRepository {
	return &fichaRepository{db: db}
}

func (r *fichaRepository) FindByID(ctx context.Context, id uint) (*models.Ficha, error) {
	var ficha models.Ficha
	err := r.db.WithContext(ctx).
		Preload("Empresa").
		Preload("Experiencias").
		Preload("Formacoes").
		Preload("Certificados").
		First(&ficha, id).Error
	if err != nil {
		return nil, err
	}
	return &ficha, nil
}

func (r *fichaRepository) Create(ctx context.Context, ficha *models.Ficha) error {
	return r.db.WithContext(ctx).Create(ficha).Error
}

func (r *fichaRepository) Update(ctx context.Context, ficha *models.Ficha) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: false}).
		Omit("Experiencias", "Formacoes", "Certificados", "Empresa").
		Save(ficha).Error
}

// ReplaceSubLists swaps a ficha's experiencias/formacoes/certificados for
// the ones on the struct, in one transaction. The client always submits
// the full lists, so replace is simpler than diffing.
func (r *fichaRepository) ReplaceSubLists(ctx context.Context, ficha *models.Ficha) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ficha_id = ?", ficha.ID).Delete(&models.Experiencia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ficha_id = ?", ficha.ID).Delete(&models.Formacao{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ficha_id = ?", ficha.ID).Delete(&models.Certificado{}).Error; err != nil {
			return err
		}
		if len(ficha.Experiencias) > 0 {
			if err := tx.Create(&ficha.Experiencias).Error; err != nil {
				return err
			}
		}
		if len(ficha.Formacoes) > 0 {
			if err := tx.Create(&ficha.Formacoes).Error; err != nil {
				return err
			}
		}
		if len(ficha.Certificados) > 0 {
			if err := tx.Create(&ficha.Certificados).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *fichaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Ficha{}, id).Error
}

func (r *fichaRepository) List(ctx context.Context, query *ListQuery) ([]models.Ficha, int64, error) {
	var fichas []models.Ficha
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Ficha{})

	if tipo := query.Filters["tipo"]; tipo != "" {
		db = db.Where("tipo = ?", tipo)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nome ILIKE ? OR cpf ILIKE ? OR email ILIKE ?", search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(orderClause(query, fichaSortColumns, "nome ASC"))

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Empresa").
		Preload("Experiencias").
		Preload("Formacoes").
		Preload("Certificados").
		Find(&fichas).Error
	return fichas, total, err
}
