package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
)

// FichaHandler handles person record endpoints
type FichaHandler struct {
	fichaService  *services.FichaService
	exportService *services.ExportService
}

// NewFichaHandler creates a new ficha handler
func NewFichaHandler(fichaService *services.FichaService, exportService *services.ExportService) *FichaHandler {
	return &FichaHandler{fichaService: fichaService, exportService: exportService}
}

func fichaListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	pageParams(c, query)
	query.Search = c.Query("search")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.DefaultQuery("sort_dir", "asc")
	if tipo := c.Query("tipo"); tipo != "" {
		query.Filters["tipo"] = tipo
	}
	return query
}

// @Summary List fichas
// @Description Paginated person records, searchable by name, document and email
// @Tags Fichas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search term"
// @Param tipo query string false "INTERNA or CLIENTE"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fichas [get]
func (h *FichaHandler) Index(c *gin.Context) {
	query := fichaListQuery(c)

	fichas, total, err := h.fichaService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.FichaResponse, 0, len(fichas))
	for i := range fichas {
		responses = append(responses, fichas[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"fichas": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Get ficha
// @Tags Fichas
// @Produce json
// @Param id path int true "Ficha ID"
// @Success 200 {object} models.FichaResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /fichas/{id} [get]
func (h *FichaHandler) Show(c *gin.Context) {
	ficha, err := h.fichaService.GetByID(c.Request.Context(), parseID(c, "id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ficha": ficha.ToResponse()})
}

// @Summary Create ficha
// @Tags Fichas
// @Accept json
// @Produce json
// @Param ficha body models.Ficha true "Ficha"
// @Success 201 {object} models.FichaResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /fichas [post]
func (h *FichaHandler) Create(c *gin.Context) {
	var ficha models.Ficha
	if err := c.ShouldBindJSON(&ficha); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	created, err := h.fichaService.Create(c.Request.Context(), &ficha, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ficha": created.ToResponse()})
}

// @Summary Update ficha
// @Tags Fichas
// @Accept json
// @Produce json
// @Param id path int true "Ficha ID"
// @Param ficha body models.Ficha true "Ficha"
// @Success 200 {object} models.FichaResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /fichas/{id} [put]
func (h *FichaHandler) Update(c *gin.Context) {
	var ficha models.Ficha
	if err := c.ShouldBindJSON(&ficha); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.fichaService.Update(c.Request.Context(), parseID(c, "id"), &ficha, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ficha": updated.ToResponse()})
}

// @Summary Delete ficha
// @Tags Fichas
// @Produce json
// @Param id path int true "Ficha ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /fichas/{id} [delete]
func (h *FichaHandler) Delete(c *gin.Context) {
	if err := h.fichaService.Delete(c.Request.Context(), parseID(c, "id"), auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ficha removida"})
}

// @Summary Export fichas
// @Description Download the ficha registry as a spreadsheet
// @Tags Fichas
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search term"
// @Param tipo query string false "INTERNA or CLIENTE"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /fichas/export [get]
func (h *FichaHandler) Export(c *gin.Context) {
	query := fichaListQuery(c)
	query.PerPage = 0 // export everything that matches

	data, filename, err := h.exportService.FichasXLSX(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
