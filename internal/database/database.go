package database

import (
	"fmt"
	"os"
	"time"

	"github.com/viaplan/viaplan-api/internal/models"
	pkgLogger "github.com/viaplan/viaplan-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewSQLLogger(logLevel, 200*time.Millisecond)

	// Open database connection
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Ficha{},
		&models.Experiencia{},
		&models.Formacao{},
		&models.Certificado{},
		&models.Empresa{},
		&models.Contract{},
		&models.ContractParticipant{},
		&models.CompanyParticipation{},
		&models.ContractEditor{},
		&models.Obra{},
		&models.NonConformity{},
		&models.NCPhoto{},
		&models.Lesson{},
		&models.Software{},
		&models.SoftwareComment{},
		&models.ProductFolder{},
		&models.ProductFile{},
		&models.AuditLog{},
	)
}
