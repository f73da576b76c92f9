package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
)

// EmpresaHandler handles company endpoints
type EmpresaHandler struct {
	empresaService *services.EmpresaService
}

// NewEmpresaHandler creates a new empresa handler
func NewEmpresaHandler(empresaService *services.EmpresaService) *EmpresaHandler {
	return &EmpresaHandler{empresaService: empresaService}
}

// @Summary List empresas
// @Tags Empresas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search term"
// @Param tipo query string false "CLIENTE, FORNECEDOR or PARCEIRA"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /empresas [get]
func (h *EmpresaHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	pageParams(c, query)
	query.Search = c.Query("search")
	if tipo := c.Query("tipo"); tipo != "" {
		query.Filters["tipo"] = tipo
	}

	empresas, total, err := h.empresaService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"empresas": empresas,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Get empresa
// @Tags Empresas
// @Produce json
// @Param id path int true "Empresa ID"
// @Success 200 {object} models.Empresa
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /empresas/{id} [get]
func (h *EmpresaHandler) Show(c *gin.Context) {
	empresa, err := h.empresaService.GetByID(c.Request.Context(), parseID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"empresa": empresa})
}

// @Summary Create empresa
// @Tags Empresas
// @Accept json
// @Produce json
// @Param empresa body models.Empresa true "Empresa"
// @Success 201 {object} models.Empresa
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /empresas [post]
func (h *EmpresaHandler) Create(c *gin.Context) {
	var empresa models.Empresa
	if err := c.ShouldBindJSON(&empresa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	created, err := h.empresaService.Create(c.Request.Context(), &empresa, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"empresa": created})
}

// @Summary Update empresa
// @Tags Empresas
// @Accept json
// @Produce json
// @Param id path int true "Empresa ID"
// @Param empresa body models.Empresa true "Empresa"
// @Success 200 {object} models.Empresa
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /empresas/{id} [put]
func (h *EmpresaHandler) Update(c *gin.Context) {
	var empresa models.Empresa
	if err := c.ShouldBindJSON(&empresa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.empresaService.Update(c.Request.Context(), parseID(c, "id"), &empresa, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"empresa": updated})
}

// @Summary Delete empresa
// @Tags Empresas
// @Produce json
// @Param id path int true "Empresa ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /empresas/{id} [delete]
func (h *EmpresaHandler) Delete(c *gin.Context) {
	if err := h.empresaService.Delete(c.Request.Context(), parseID(c, "id"), auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "empresa removida"})
}
