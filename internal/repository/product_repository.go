package repository

import (
	"context"

	"github.com/viaplan/viaplan-api/internal/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product folder and file data access
type ProductRepository interface {
	FindFolder(ctx context.Context, id uint) (*models.ProductFolder, error)
	FindFoldersByContract(ctx context.Context, contractID uint) ([]models.ProductFolder, error)
	CreateFolder(ctx context.Context, folder *models.ProductFolder) error
	UpdateFolder(ctx context.Context, folder *models.ProductFolder) error
	DeleteFolder(ctx context.Context, id uint) error
	CountFolderChildren(ctx context.Context, folderID uint) (int64, error)
	FindFile(ctx context.Context, id uint) (*models.ProductFile, error)
	FindFilesByFolder(ctx context.Context, folderID uint) ([]models.ProductFile, error)
	CreateFile(ctx context.Context, file *models.ProductFile) error
	UpdateFile(ctx context.Context, file *models.ProductFile) error
	DeleteFile(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindFolder(ctx context.Context, id uint) (*models.ProductFolder, error) {
	var folder models.ProductFolder
	err := r.db.WithContext(ctx).
		Preload("Files").
		First(&folder, id).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *productRepository) FindFoldersByContract(ctx context.Context, contractID uint) ([]models.ProductFolder, error) {
	var folders []models.ProductFolder
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Preload("Files").
		Order("nome ASC").
		Find(&folders).Error
	return folders, err
}

func (r *productRepository) CreateFolder(ctx context.Context, folder *models.ProductFolder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *productRepository) UpdateFolder(ctx context.Context, folder *models.ProductFolder) error {
	return r.db.WithContext(ctx).Omit("Files").Save(folder).Error
}

func (r *productRepository) DeleteFolder(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductFolder{}, id).Error
}

// CountFolderChildren counts subfolders plus files directly under a folder
func (r *productRepository) CountFolderChildren(ctx context.Context, folderID uint) (int64, error) {
	var subfolders, files int64

	err := r.db.WithContext(ctx).
		Model(&models.ProductFolder{}).
		Where("parent_id = ?", folderID).
		Count(&subfolders).Error
	if err != nil {
		return 0, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.ProductFile{}).
		Where("folder_id = ?", folderID).
		Count(&files).Error
	if err != nil {
		return 0, err
	}

	return subfolders + files, nil
}

func (r *productRepository) FindFile(ctx context.Context, id uint) (*models.ProductFile, error) {
	var file models.ProductFile
	err := r.db.WithContext(ctx).First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *productRepository) FindFilesByFolder(ctx context.Context, folderID uint) ([]models.ProductFile, error) {
	var files []models.ProductFile
	err := r.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("nome ASC").
		Find(&files).Error
	return files, err
}

func (r *productRepository) CreateFile(ctx context.Context, file *models.ProductFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *productRepository) UpdateFile(ctx context.Context, file *models.ProductFile) error {
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *productRepository) DeleteFile(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductFile{}, id).Error
}
