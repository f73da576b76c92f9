package models

import (
	"time"
)

// Ficha represents a person record (internal staff or client contact)
type Ficha struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Tipo           string     `gorm:"not null;index" json:"tipo"` // INTERNA or CLIENTE
	Nome           string     `gorm:"not null" json:"nome"`
	CPF            string     `gorm:"column:cpf;index" json:"cpf"`
	RG             string     `gorm:"column:rg" json:"rg"`
	DataNascimento *time.Time `json:"data_nascimento"`
	Email          string     `gorm:"index" json:"email"`
	Telefone       string     `json:"telefone"`
	Celular        string     `json:"celular"`
	Endereco       string     `json:"endereco"`
	Cidade         string     `json:"cidade"`
	UF             string     `gorm:"column:uf;size:2" json:"uf"`
	CEP            string     `gorm:"column:cep" json:"cep"`
	FotoURL        *string    `gorm:"column:foto_url" json:"foto_url"`

	// Professional fields. Cargo/Setor/Matricula apply to INTERNA,
	// CargoCliente and EmpresaID to CLIENTE.
	Cargo        string  `json:"cargo"`
	Setor        string  `json:"setor"`
	Matricula    string  `json:"matricula"`
	CargoCliente *string `json:"cargo_cliente"`
	EmpresaID    *uint   `gorm:"index" json:"empresa_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Empresa      *Empresa      `gorm:"foreignKey:EmpresaID" json:"empresa,omitempty"`
	Experiencias []Experiencia `gorm:"foreignKey:FichaID;constraint:OnDelete:CASCADE" json:"experiencias"`
	Formacoes    []Formacao    `gorm:"foreignKey:FichaID;constraint:OnDelete:CASCADE" json:"formacoes"`
	Certificados []Certificado `gorm:"foreignKey:FichaID;constraint:OnDelete:CASCADE" json:"certificados"`
}

// TableName specifies the table name for Ficha
func (Ficha) TableName() string {
	return "fichas"
}

// Ficha tipo constants
const (
	FichaTipoInterna = "INTERNA"
	FichaTipoCliente = "CLIENTE"
)

// IsCliente returns true for client-contact fichas
func (f *Ficha) IsCliente() bool {
	return f.Tipo == FichaTipoCliente
}

// Experiencia is a work-history entry of a ficha. The ID is a
// server-generated UUID so entries survive reordering on the client.
type Experiencia struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	FichaID    uint       `gorm:"not null;index" json:"-"`
	Empresa    string     `gorm:"not null" json:"empresa"`
	Cargo      string     `gorm:"not null" json:"cargo"`
	Descricao  string     `gorm:"type:text" json:"descricao"`
	DataInicio *time.Time `json:"data_inicio"`
	DataFim    *time.Time `json:"data_fim"`
}

// TableName specifies the table name for Experiencia
func (Experiencia) TableName() string {
	return "ficha_experiencias"
}

// Formacao is an education entry of a ficha
type Formacao struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	FichaID      uint   `gorm:"not null;index" json:"-"`
	Instituicao  string `gorm:"not null" json:"instituicao"`
	Curso        string `gorm:"not null" json:"curso"`
	Nivel        string `json:"nivel"`
	AnoConclusao *int   `json:"ano_conclusao"`
}

// TableName specifies the table name for Formacao
func (Formacao) TableName() string {
	return "ficha_formacoes"
}

// Certificado is a certificate entry of a ficha
type Certificado struct {
	ID       string     `gorm:"primaryKey;size:36" json:"id"`
	FichaID  uint       `gorm:"not null;index" json:"-"`
	Nome     string     `gorm:"not null" json:"nome"`
	Emissor  string     `json:"emissor"`
	Validade *time.Time `json:"validade"`
}

// TableName specifies the table name for Certificado
func (Certificado) TableName() string {
	return "ficha_certificados"
}

// FichaResponse is the JSON response format for fichas. Sub-lists are
// always arrays, never null, so clients can append without nil checks.
type FichaResponse struct {
	ID             uint          `json:"id"`
	Tipo           string        `json:"tipo"`
	Nome           string        `json:"nome"`
	CPF            string        `json:"cpf"`
	RG             string        `json:"rg"`
	DataNascimento *time.Time    `json:"data_nascimento"`
	Email          string        `json:"email"`
	Telefone       string        `json:"telefone"`
	Celular        string        `json:"celular"`
	Endereco       string        `json:"endereco"`
	Cidade         string        `json:"cidade"`
	UF             string        `json:"uf"`
	CEP            string        `json:"cep"`
	FotoURL        *string       `json:"foto_url"`
	Cargo          string        `json:"cargo"`
	Setor          string        `json:"setor"`
	Matricula      string        `json:"matricula"`
	CargoCliente   *string       `json:"cargo_cliente"`
	EmpresaID      *uint         `json:"empresa_id"`
	EmpresaNome    string        `json:"empresa_nome,omitempty"`
	Experiencias   []Experiencia `json:"experiencias"`
	Formacoes      []Formacao    `json:"formacoes"`
	Certificados   []Certificado `json:"certificados"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ToResponse converts Ficha to FichaResponse
func (f *Ficha) ToResponse() FichaResponse {
	resp := FichaResponse{
		ID:             f.ID,
		Tipo:           f.Tipo,
		Nome:           f.Nome,
		CPF:            f.CPF,
		RG:             f.RG,
		DataNascimento: f.DataNascimento,
		Email:          f.Email,
		Telefone:       f.Telefone,
		Celular:        f.Celular,
		Endereco:       f.Endereco,
		Cidade:         f.Cidade,
		UF:             f.UF,
		CEP:            f.CEP,
		FotoURL:        f.FotoURL,
		Cargo:          f.Cargo,
		Setor:          f.Setor,
		Matricula:      f.Matricula,
		CargoCliente:   f.CargoCliente,
		EmpresaID:      f.EmpresaID,
		Experiencias:   f.Experiencias,
		Formacoes:      f.Formacoes,
		Certificados:   f.Certificados,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}

	if f.Empresa != nil {
		resp.EmpresaNome = f.Empresa.Nome
	}

	if resp.Experiencias == nil {
		resp.Experiencias = []Experiencia{}
	}
	if resp.Formacoes == nil {
		resp.Formacoes = []Formacao{}
	}
	if resp.Certificados == nil {
		resp.Certificados = []Certificado{}
	}

	return resp
}
