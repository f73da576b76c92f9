package repository

import (
	"context"
	"fmt"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// EmpresaRepository defines the interface for company data access
type EmpresaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Empresa, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*models.Empresa, error)
	Create(ctx context.Context, empresa *models.Empresa) error
	Update(ctx context.Context, empresa *models.Empresa) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Empresa, int64, error)
}

// empresaSortColumns whitelists the columns a client may sort empresas by
var empresaSortColumns = map[string]string{
	"nome":         "nome",
	"razao_social": "razao_social",
	"cnpj":         "cnpj",
	"tipo":         "tipo",
	"created_at":   "created_at",
}

type empresaRepository struct {
	db *gorm.DB
}

// NewEmpresaRepository creates a new empresa repository
func NewEmpresaRepository(db *gorm.DB) EmpresaRepository {
	return &empresaRepository{db: db}
}

func (r *empresaRepository) FindByID(ctx context.Context, id uint) (*models.Empresa, error) {
	var empresa models.Empresa
	err := r.db.WithContext(ctx).First(&empresa, id).Error
	if err != nil {
		return nil, err
	}
	return &empresa, nil
}

func (r *empresaRepository) FindByCNPJ(ctx context.Context, cnpj string) (*models.Empresa, error) {
	var empresa models.Empresa
	err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&empresa).Error
	if err != nil {
		return nil, err
	}
	return &empresa, nil
}

func (r *empresaRepository) Create(ctx context.Context, empresa *models.Empresa) error {
	if err := r.db.WithContext(ctx).Create(empresa).Error; err != nil {
		if isDuplicateKeyError(err, "empresas_cnpj_key") {
			return fmt.Errorf("%w: já existe uma empresa com este CNPJ", ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *empresaRepository) Update(ctx context.Context, empresa *models.Empresa) error {
	return r.db.WithContext(ctx).Save(empresa).Error
}

func (r *empresaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Empresa{}, id).Error
}

func (r *empresaRepository) List(ctx context.Context, query *ListQuery) ([]models.Empresa, int64, error) {
	var empresas []models.Empresa
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Empresa{})

	if tipo := query.Filters["tipo"]; tipo != "" {
		db = db.Where("tipo = ?", tipo)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nome ILIKE ? OR razao_social ILIKE ? OR cnpj ILIKE ?", search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(orderClause(query, empresaSortColumns, "nome ASC"))

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&empresas).Error
	return empresas, total, err
}
