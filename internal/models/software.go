package models

import (
	"time"
)

// Software is an inventory entry of software used on a contract
type Software struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContractID  uint      `gorm:"not null;index" json:"contract_id"`
	Nome        string    `gorm:"not null" json:"nome"`
	Versao      string    `json:"versao"`
	Licenca     string    `json:"licenca"`
	Responsavel string    `json:"responsavel"`
	Descricao   string    `gorm:"type:text" json:"descricao"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Comments []SoftwareComment `gorm:"foreignKey:SoftwareID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Software
func (Software) TableName() string {
	return "software"
}

// SoftwareComment is a comment on a software entry. Replies reference
// their parent; threading is one level deep.
type SoftwareComment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SoftwareID      uint      `gorm:"not null;index" json:"software_id"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`
	AuthorID        uint      `gorm:"not null" json:"author_id"`
	Texto           string    `gorm:"type:text;not null" json:"texto"`
	CreatedAt       time.Time `json:"created_at"`

	// Associations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for SoftwareComment
func (SoftwareComment) TableName() string {
	return "software_comments"
}
