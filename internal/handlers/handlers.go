package handlers

import (
	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/services"
	"github.com/viaplan/viaplan-api/internal/storage"
	"gorm.io/gorm"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	User     *UserHandler
	Ficha    *FichaHandler
	Empresa  *EmpresaHandler
	Contract *ContractHandler
	Obra     *ObraHandler
	Lesson   *LessonHandler
	Software *SoftwareHandler
	Product  *ProductHandler
	Upload   *UploadHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store storage.Storage, db *gorm.DB, worker *jobs.Worker, publicBaseURL string) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(db, worker),
		Auth:     NewAuthHandler(svcs.Auth),
		User:     NewUserHandler(svcs.User),
		Ficha:    NewFichaHandler(svcs.Ficha, svcs.Export),
		Empresa:  NewEmpresaHandler(svcs.Empresa),
		Contract: NewContractHandler(svcs.Contract, svcs.Audit, svcs.Export),
		Obra:     NewObraHandler(svcs.Obra, svcs.Contract, store, publicBaseURL),
		Lesson:   NewLessonHandler(svcs.Lesson, svcs.Contract),
		Software: NewSoftwareHandler(svcs.Software, svcs.Contract),
		Product:  NewProductHandler(svcs.Product, svcs.Contract, store, publicBaseURL),
		Upload:   NewUploadHandler(store, publicBaseURL),
	}
}
