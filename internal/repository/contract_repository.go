package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error)
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error)
	ReplaceParticipants(ctx context.Context, contractID uint, participants []models.ContractParticipant) error
	ReplaceParticipations(ctx context.Context, contractID uint, participations []models.CompanyParticipation) error
}

// ContractQuery extends ListQuery with contract-specific filters
type ContractQuery struct {
	*ListQuery
	UserID  uint
	IsAdmin bool
	Status  string
}

// contractSortColumns whitelists the columns a client may sort contracts by.
// Qualified names because the search path joins empresas.
var contractSortColumns = map[string]string{
	"nome":       "contracts.nome",
	"setor":      "contracts.setor",
	"status":     "contracts.status",
	"valor":      "contracts.valor",
	"created_at": "contracts.created_at",
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Joins("Empresa").
		Joins("Owner").
		Preload("Participants.Ficha").
		Preload("Participations").
		Preload("Obras").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).
		Omit("Participants", "Participations", "Obras", "Editors", "Empresa", "Owner").
		Save(contract).Error
}

func (r *contractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Contract{}, id).Error
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contract{})

	// Non-admins only see contracts they own or edit
	if !query.IsAdmin && query.UserID > 0 {
		db = db.Where("contracts.owner_id = ? OR contracts.id IN (SELECT contract_id FROM contract_editors WHERE user_id = ?)",
			query.UserID, query.UserID)
	}

	if query.Status != "" {
		db = db.Where("contracts.status = ?", query.Status)
	}

	if setor := query.Filters["setor"]; setor != "" {
		db = db.Where("contracts.setor = ?", setor)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN empresas ON empresas.id = contracts.empresa_id").
			Where("contracts.nome ILIKE ? OR contracts.objeto ILIKE ? OR empresas.nome ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(orderClause(query.ListQuery, contractSortColumns, "contracts.created_at DESC"))

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Empresa").
		Preload("Owner").
		Preload("Participations").
		Preload("Obras").
		Find(&contracts).Error
	return contracts, total, err
}

// ReplaceParticipants swaps the participant list of a contract
func (r *contractRepository) ReplaceParticipants(ctx context.Context, contractID uint, participants []models.ContractParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", contractID).Delete(&models.ContractParticipant{}).Error; err != nil {
			return err
		}
		if len(participants) > 0 {
			if err := tx.Create(&participants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceParticipations swaps the company participation rows of a contract
func (r *contractRepository) ReplaceParticipations(ctx context.Context, contractID uint, participations []models.CompanyParticipation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", contractID).Delete(&models.CompanyParticipation{}).Error; err != nil {
			return err
		}
		if len(participations) > 0 {
			if err := tx.Create(&participations).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EditorRepository defines the interface for contract editor data access
type EditorRepository interface {
	FindByContract(ctx context.Context, contractID uint) ([]models.ContractEditor, error)
	FindByContractAndUser(ctx context.Context, contractID, userID uint) (*models.ContractEditor, error)
	Create(ctx context.Context, editor *models.ContractEditor) error
	Delete(ctx context.Context, id uint) error
	IsEditor(ctx context.Context, contractID, userID uint) (bool, error)
}

type editorRepository struct {
	db *gorm.DB
}

// NewEditorRepository creates a new editor repository
func NewEditorRepository(db *gorm.DB) EditorRepository {
	return &editorRepository{db: db}
}

func (r *editorRepository) FindByContract(ctx context.Context, contractID uint) ([]models.ContractEditor, error) {
	var editors []models.ContractEditor
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Preload("User").
		Order("created_at ASC").
		Find(&editors).Error
	return editors, err
}

func (r *editorRepository) FindByContractAndUser(ctx context.Context, contractID, userID uint) (*models.ContractEditor, error) {
	var editor models.ContractEditor
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND user_id = ?", contractID, userID).
		First(&editor).Error
	if err != nil {
		return nil, err
	}
	return &editor, nil
}

func (r *editorRepository) Create(ctx context.Context, editor *models.ContractEditor) error {
	return r.db.WithContext(ctx).Create(editor).Error
}

func (r *editorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ContractEditor{}, id).Error
}

func (r *editorRepository) IsEditor(ctx context.Context, contractID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContractEditor{}).
		Where("contract_id = ? AND user_id = ?", contractID, userID).
		Count(&count).Error
	return count > 0, err
}
