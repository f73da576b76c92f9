package models

import (
	"fmt"
	"math"
	"time"
)

// Contract represents an engineering contract
type Contract struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Nome       string     `gorm:"not null" json:"nome"`
	Setor      string     `json:"setor"`
	Objeto     string     `gorm:"type:text" json:"objeto"`
	Escopo     string     `gorm:"type:text" json:"escopo"`
	Valor      *float64   `gorm:"type:decimal" json:"valor"`
	DataInicio *time.Time `json:"data_inicio"`
	DataFim    *time.Time `json:"data_fim"`
	EmpresaID  *uint      `gorm:"index" json:"empresa_id"`
	OwnerID    uint       `gorm:"not null;index" json:"owner_id"`
	Status     string     `gorm:"default:RASCUNHO;index" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Empresa        *Empresa               `gorm:"foreignKey:EmpresaID" json:"empresa,omitempty"`
	Owner          User                   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Participants   []ContractParticipant  `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"participants"`
	Participations []CompanyParticipation `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"participations"`
	Obras          []Obra                 `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"obras"`
	Editors        []ContractEditor       `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"editors,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusRascunho  = "RASCUNHO"
	ContractStatusAtivo     = "ATIVO"
	ContractStatusEncerrado = "ENCERRADO"
	ContractStatusCancelado = "CANCELADO"
)

// MayActivate returns true if contract can transition to ATIVO
func (c *Contract) MayActivate() bool {
	return c.Status == ContractStatusRascunho
}

// MayClose returns true if contract can transition to ENCERRADO
func (c *Contract) MayClose() bool {
	return c.Status == ContractStatusAtivo
}

// MayCancel returns true if contract can transition to CANCELADO
func (c *Contract) MayCancel() bool {
	return c.Status == ContractStatusRascunho || c.Status == ContractStatusAtivo
}

// Participant role constants. OUTRO carries a free-text label in
// CustomRole; the other roles must not.
const (
	ParticipantRoleGestorArea   = "GESTOR_AREA"
	ParticipantRoleCoordenadora = "COORDENADORA"
	ParticipantRoleFiscal       = "FISCAL"
	ParticipantRoleEquipe       = "EQUIPE"
	ParticipantRoleOutro        = "OUTRO"
)

// ValidParticipantRole reports whether role is one of the fixed roles
func ValidParticipantRole(role string) bool {
	switch role {
	case ParticipantRoleGestorArea, ParticipantRoleCoordenadora,
		ParticipantRoleFiscal, ParticipantRoleEquipe, ParticipantRoleOutro:
		return true
	}
	return false
}

// ContractParticipant links a ficha to a contract under a role
type ContractParticipant struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	ContractID uint    `gorm:"not null;index" json:"-"`
	FichaID    uint    `gorm:"not null;index" json:"ficha_id"`
	Role       string  `gorm:"not null" json:"role"`
	CustomRole *string `json:"custom_role"`

	// Associations
	Ficha Ficha `gorm:"foreignKey:FichaID" json:"ficha,omitempty"`
}

// TableName specifies the table name for ContractParticipant
func (ContractParticipant) TableName() string {
	return "contract_participants"
}

// CompanyParticipation is one company's percentage share of a contract
type CompanyParticipation struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	ContractID uint    `gorm:"not null;index" json:"-"`
	Nome       string  `gorm:"not null" json:"nome"`
	Percentage float64 `gorm:"not null" json:"percentage"`
}

// TableName specifies the table name for CompanyParticipation
func (CompanyParticipation) TableName() string {
	return "company_participations"
}

// ContractEditor grants a user edit rights on a contract
type ContractEditor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index:idx_contract_editor,unique" json:"contract_id"`
	UserID     uint      `gorm:"not null;index:idx_contract_editor,unique" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for ContractEditor
func (ContractEditor) TableName() string {
	return "contract_editors"
}

// ParticipationSummary reports whether company participations add up to
// exactly 100.00%
type ParticipationSummary struct {
	Total   float64 `json:"total"`
	Status  string  `json:"status"` // success or warning
	Message string  `json:"message"`
}

// Participation summary status constants
const (
	ParticipationStatusSuccess = "success"
	ParticipationStatusWarning = "warning"
)

// ComputeParticipationSummary sums participation percentages rounded to
// two decimals. Exactly 100.00 yields success; anything else warning.
func ComputeParticipationSummary(participations []CompanyParticipation) ParticipationSummary {
	var total float64
	for _, p := range participations {
		total += p.Percentage
	}
	total = math.Round(total*100) / 100

	if total == 100.00 {
		return ParticipationSummary{
			Total:   total,
			Status:  ParticipationStatusSuccess,
			Message: "Participações somam 100.00%",
		}
	}
	return ParticipationSummary{
		Total:   total,
		Status:  ParticipationStatusWarning,
		Message: fmt.Sprintf("Participações somam %.2f%%, esperado 100.00%%", total),
	}
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID                   uint                   `json:"id"`
	Nome                 string                 `json:"nome"`
	Setor                string                 `json:"setor"`
	Objeto               string                 `json:"objeto"`
	Escopo               string                 `json:"escopo"`
	Valor                *float64               `json:"valor"`
	DataInicio           *time.Time             `json:"data_inicio"`
	DataFim              *time.Time             `json:"data_fim"`
	EmpresaID            *uint                  `json:"empresa_id"`
	EmpresaNome          string                 `json:"empresa_nome,omitempty"`
	OwnerID              uint                   `json:"owner_id"`
	OwnerName            string                 `json:"owner_name,omitempty"`
	Status               string                 `json:"status"`
	Participants         []ContractParticipant  `json:"participants"`
	Participations       []CompanyParticipation `json:"participations"`
	ParticipationSummary ParticipationSummary   `json:"participation_summary"`
	Obras                []Obra                 `json:"obras"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:             c.ID,
		Nome:           c.Nome,
		Setor:          c.Setor,
		Objeto:         c.Objeto,
		Escopo:         c.Escopo,
		Valor:          c.Valor,
		DataInicio:     c.DataInicio,
		DataFim:        c.DataFim,
		EmpresaID:      c.EmpresaID,
		OwnerID:        c.OwnerID,
		Status:         c.Status,
		Participants:   c.Participants,
		Participations: c.Participations,
		Obras:          c.Obras,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}

	if c.Empresa != nil {
		resp.EmpresaNome = c.Empresa.Nome
	}
	resp.OwnerName = c.Owner.FullName

	if resp.Participants == nil {
		resp.Participants = []ContractParticipant{}
	}
	if resp.Participations == nil {
		resp.Participations = []CompanyParticipation{}
	}
	if resp.Obras == nil {
		resp.Obras = []Obra{}
	}

	resp.ParticipationSummary = ComputeParticipationSummary(c.Participations)

	return resp
}
