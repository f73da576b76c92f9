package models

import (
	"time"
)

// AuditLog is an immutable record of a mutation. Entries are appended
// by services and never updated or deleted except by retention trim.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ContractID *uint     `gorm:"index" json:"contract_id"`
	Action     string    `gorm:"size:50;not null;index" json:"action"` // CREATE, UPDATE, DELETE, STATUS_CHANGE
	Entity     string    `gorm:"size:50;not null" json:"entity"`       // Contract, Ficha, Obra, NonConformity...
	EntityID   uint      `json:"entity_id"`
	Changes    string    `gorm:"type:text" json:"changes"` // before/after JSON payload
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionDelete       = "DELETE"
	AuditActionStatusChange = "STATUS_CHANGE"
	AuditActionLogin        = "LOGIN"
)
