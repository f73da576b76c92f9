package models

import (
	"time"
)

// Obra represents a highway segment covered by a contract
type Obra struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	Nome       string    `gorm:"not null" json:"nome"`
	UF         string    `gorm:"column:uf;size:2;not null" json:"uf"`
	Rodovia    string    `gorm:"not null" json:"rodovia"`
	KmInicial  float64   `gorm:"not null" json:"km_inicial"`
	KmFinal    float64   `gorm:"not null" json:"km_final"`
	Geometry   string    `gorm:"type:jsonb" json:"geometry"` // GeoJSON LineString, stored verbatim
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Obra
func (Obra) TableName() string {
	return "obras"
}

// ContainsKM reports whether km lies within the obra's segment
func (o *Obra) ContainsKM(km float64) bool {
	return km >= o.KmInicial && km <= o.KmFinal
}

// NonConformity is a logged defect at a specific kilometer of an obra
type NonConformity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ObraID     uint      `gorm:"not null;index" json:"obra_id"`
	Km         float64   `gorm:"not null" json:"km"`
	Descricao  string    `gorm:"type:text;not null" json:"descricao"`
	Severidade string    `gorm:"not null;index" json:"severidade"`
	Status     string    `gorm:"default:ABERTA;index" json:"status"`
	CreatedBy  uint      `gorm:"index" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Obra   Obra      `gorm:"foreignKey:ObraID" json:"obra,omitempty"`
	Author User      `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	Fotos  []NCPhoto `gorm:"foreignKey:NonConformityID;constraint:OnDelete:CASCADE" json:"fotos"`
}

// TableName specifies the table name for NonConformity
func (NonConformity) TableName() string {
	return "non_conformities"
}

// Severity constants
const (
	SeverityBaixa   = "BAIXA"
	SeverityMedia   = "MEDIA"
	SeverityAlta    = "ALTA"
	SeverityCritica = "CRITICA"
)

// ValidSeverity reports whether s is an accepted severity
func ValidSeverity(s string) bool {
	switch s {
	case SeverityBaixa, SeverityMedia, SeverityAlta, SeverityCritica:
		return true
	}
	return false
}

// Non-conformity status constants
const (
	NCStatusAberta    = "ABERTA"
	NCStatusEmAnalise = "EM_ANALISE"
	NCStatusResolvida = "RESOLVIDA"
	NCStatusCancelada = "CANCELADA"
)

// MayAnalyze returns true if the NC can move to EM_ANALISE
func (n *NonConformity) MayAnalyze() bool {
	return n.Status == NCStatusAberta
}

// MayResolve returns true if the NC can move to RESOLVIDA
func (n *NonConformity) MayResolve() bool {
	return n.Status == NCStatusEmAnalise
}

// MayCancel returns true if the NC can move to CANCELADA
func (n *NonConformity) MayCancel() bool {
	return n.Status == NCStatusAberta || n.Status == NCStatusEmAnalise
}

// NCPhoto is an uploaded photo attached to a non-conformity
type NCPhoto struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	NonConformityID uint      `gorm:"not null;index" json:"-"`
	URL             string    `gorm:"not null" json:"url"`
	StoragePath     string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for NCPhoto
func (NCPhoto) TableName() string {
	return "nc_photos"
}

// NonConformityResponse is the JSON response format for non-conformities
type NonConformityResponse struct {
	ID         uint      `json:"id"`
	ObraID     uint      `json:"obra_id"`
	ObraNome   string    `json:"obra_nome,omitempty"`
	Km         float64   `json:"km"`
	Descricao  string    `json:"descricao"`
	Severidade string    `json:"severidade"`
	Status     string    `json:"status"`
	CreatedBy  uint      `json:"created_by"`
	AuthorName string    `json:"author_name,omitempty"`
	Fotos      []NCPhoto `json:"fotos"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToResponse converts NonConformity to NonConformityResponse
func (n *NonConformity) ToResponse() NonConformityResponse {
	resp := NonConformityResponse{
		ID:         n.ID,
		ObraID:     n.ObraID,
		ObraNome:   n.Obra.Nome,
		Km:         n.Km,
		Descricao:  n.Descricao,
		Severidade: n.Severidade,
		Status:     n.Status,
		CreatedBy:  n.CreatedBy,
		AuthorName: n.Author.FullName,
		Fotos:      n.Fotos,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if resp.Fotos == nil {
		resp.Fotos = []NCPhoto{}
	}
	return resp
}
