package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User          UserRepository
	RefreshToken  RefreshTokenRepository
	Ficha         FichaRepository
	Empresa       EmpresaRepository
	Contract      ContractRepository
	Editor        EditorRepository
	Obra          ObraRepository
	NonConformity NonConformityRepository
	Lesson        LessonRepository
	Software      SoftwareRepository
	Product       ProductRepository
	Audit         AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		RefreshToken:  NewRefreshTokenRepository(db),
		Ficha:         NewFichaRepository(db),
		Empresa:       NewEmpresaRepository(db),
		Contract:      NewContractRepository(db),
		Editor:        NewEditorRepository(db),
		Obra:          NewObraRepository(db),
		NonConformity: NewNonConformityRepository(db),
		Lesson:        NewLessonRepository(db),
		Software:      NewSoftwareRepository(db),
		Product:       NewProductRepository(db),
		Audit:         NewAuditRepository(db),
	}
}
