package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/jobs"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	db     *gorm.DB
	worker *jobs.Worker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{db: db, worker: worker}
}

// @Summary Health check
// @Description Liveness probe with a database ping
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"worker":   h.worker.GetStats(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
