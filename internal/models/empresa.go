package models

import (
	"time"
)

// Empresa represents a company in the registry
type Empresa struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nome         string    `gorm:"not null" json:"nome"`
	RazaoSocial  string    `json:"razao_social"`
	CNPJ         string    `gorm:"column:cnpj;uniqueIndex;not null" json:"cnpj"`
	Tipo         string    `gorm:"not null;index" json:"tipo"` // CLIENTE, FORNECEDOR, PARCEIRA
	Email        string    `json:"email"`
	Telefone     string    `json:"telefone"`
	Endereco     string    `json:"endereco"`
	Cidade       string    `json:"cidade"`
	UF           string    `gorm:"column:uf;size:2" json:"uf"`
	Responsavel  string    `json:"responsavel"`
	Observacoes  string    `gorm:"type:text" json:"observacoes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Empresa
func (Empresa) TableName() string {
	return "empresas"
}

// Empresa tipo constants
const (
	EmpresaTipoCliente    = "CLIENTE"
	EmpresaTipoFornecedor = "FORNECEDOR"
	EmpresaTipoParceira   = "PARCEIRA"
)

// ValidEmpresaTipo reports whether t is one of the accepted company types
func ValidEmpresaTipo(t string) bool {
	switch t {
	case EmpresaTipoCliente, EmpresaTipoFornecedor, EmpresaTipoParceira:
		return true
	}
	return false
}

// ValidCNPJ validates a CNPJ number (digits only or formatted) by its
// two check digits.
func ValidCNPJ(cnpj string) bool {
	digits := make([]int, 0, 14)
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 14 {
		return false
	}

	// All-same-digit CNPJs pass the checksum but are invalid
	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	check := func(n int) int {
		weight := 2
		sum := 0
		for i := n - 1; i >= 0; i-- {
			sum += digits[i] * weight
			weight++
			if weight > 9 {
				weight = 2
			}
		}
		rest := sum % 11
		if rest < 2 {
			return 0
		}
		return 11 - rest
	}

	return digits[12] == check(12) && digits[13] == check(13)
}
