package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// LessonRepository defines the interface for lesson data access
type LessonRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lesson, error)
	FindByContract(ctx context.Context, contractID uint, tipo string) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) FindByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).Preload("Author").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) FindByContract(ctx context.Context, contractID uint, tipo string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	db := r.db.WithContext(ctx).Where("contract_id = ?", contractID)
	if tipo != "" {
		db = db.Where("tipo = ?", tipo)
	}
	err := db.Preload("Author").Order("created_at DESC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lesson{}, id).Error
}
