package services

import (
	"github.com/redis/go-redis/v9"

	"github.com/viaplan/viaplan-api/internal/config"
	"github.com/viaplan/viaplan-api/internal/geo"
	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth     *AuthService
	User     *UserService
	Security *SecurityService
	Ficha    *FichaService
	Empresa  *EmpresaService
	Contract *ContractService
	Obra     *ObraService
	Lesson   *LessonService
	Software *SoftwareService
	Product  *ProductService
	Audit    *AuditService
	Email    *EmailService
	Export   *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, rdb *redis.Client, geoClient *geo.Client, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit, worker)
	emailSvc := NewEmailService(cfg)
	securitySvc := NewSecurityService(rdb, cfg.BlockedCountries)

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RefreshToken, securitySvc, cfg),
		User:     NewUserService(repos.User, emailSvc, auditSvc, worker),
		Security: securitySvc,
		Ficha:    NewFichaService(repos.Ficha, repos.Empresa, auditSvc),
		Empresa:  NewEmpresaService(repos.Empresa, auditSvc),
		Contract: NewContractService(repos.Contract, repos.Editor, repos.Ficha, repos.User, emailSvc, auditSvc, worker),
		Obra:     NewObraService(repos.Obra, repos.NonConformity, geoClient, auditSvc),
		Lesson:   NewLessonService(repos.Lesson, auditSvc),
		Software: NewSoftwareService(repos.Software, auditSvc),
		Product:  NewProductService(repos.Product, auditSvc),
		Audit:    auditSvc,
		Email:    emailSvc,
		Export:   NewExportService(repos.Ficha, repos.Contract),
	}
}
