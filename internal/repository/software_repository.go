package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// SoftwareRepository defines the interface for software inventory data access
type SoftwareRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Software, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.Software, error)
	Create(ctx context.Context, software *models.Software) error
	Update(ctx context.Context, software *models.Software) error
	Delete(ctx context.Context, id uint) error
	FindComment(ctx context.Context, id uint) (*models.SoftwareComment, error)
	CreateComment(ctx context.Context, comment *models.SoftwareComment) error
	DeleteComment(ctx context.Context, id uint) error
}

type softwareRepository struct {
	db *gorm.DB
}

// NewSoftwareRepository creates a new software repository
func NewSoftwareRepository(db *gorm.DB) SoftwareRepository {
	return &softwareRepository{db: db}
}

func (r *softwareRepository) FindByID(ctx context.Context, id uint) (*models.Software, error) {
	var software models.Software
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("software_comments.created_at ASC")
		}).
		Preload("Comments.Author").
		First(&software, id).Error
	if err != nil {
		return nil, err
	}
	return &software, nil
}

func (r *softwareRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Software, error) {
	var entries []models.Software
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("software_comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Order("nome ASC").
		Find(&entries).Error
	return entries, err
}

func (r *softwareRepository) Create(ctx context.Context, software *models.Software) error {
	return r.db.WithContext(ctx).Create(software).Error
}

func (r *softwareRepository) Update(ctx context.Context, software *models.Software) error {
	return r.db.WithContext(ctx).Omit("Comments").Save(software).Error
}

func (r *softwareRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Software{}, id).Error
}

func (r *softwareRepository) FindComment(ctx context.Context, id uint) (*models.SoftwareComment, error) {
	var comment models.SoftwareComment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *softwareRepository) CreateComment(ctx context.Context, comment *models.SoftwareComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *softwareRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", id).Delete(&models.SoftwareComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SoftwareComment{}, id).Error
	})
}
