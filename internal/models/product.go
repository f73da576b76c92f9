package models

import (
	"time"
)

// ProductFolder is a node of a contract's document tree. Root folders
// have a nil ParentID.
type ProductFolder struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	ParentID   *uint     `gorm:"index" json:"parent_id"`
	Nome       string    `gorm:"not null" json:"nome"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Files []ProductFile `gorm:"foreignKey:FolderID" json:"files,omitempty"`
}

// TableName specifies the table name for ProductFolder
func (ProductFolder) TableName() string {
	return "product_folders"
}

// ProductFile is a stored document inside a product folder
type ProductFile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContractID  uint      `gorm:"not null;index" json:"contract_id"`
	FolderID    uint      `gorm:"not null;index" json:"folder_id"`
	Nome        string    `gorm:"not null" json:"nome"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	StoragePath string    `json:"-"`
	URL         string    `json:"url"`
	UploadedBy  uint      `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for ProductFile
func (ProductFile) TableName() string {
	return "product_files"
}
