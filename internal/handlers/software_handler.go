package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/middleware"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/services"
)

// SoftwareHandler handles software inventory and comment endpoints
type SoftwareHandler struct {
	softwareService *services.SoftwareService
	contractService *services.ContractService
}

// NewSoftwareHandler creates a new software handler
func NewSoftwareHandler(softwareService *services.SoftwareService, contractService *services.ContractService) *SoftwareHandler {
	return &SoftwareHandler{softwareService: softwareService, contractService: contractService}
}

// @Summary List contract software
// @Tags Software
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/software [get]
func (h *SoftwareHandler) Index(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	software, err := h.softwareService.ListByContract(c.Request.Context(), contractID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"software": software})
}

// @Summary Create software entry
// @Tags Software
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param software body models.Software true "Software"
// @Success 201 {object} models.Software
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/software [post]
func (h *SoftwareHandler) Create(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	var software models.Software
	if err := c.ShouldBindJSON(&software); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	software.ContractID = contractID
	software.CreatedBy = middleware.GetUserID(c)

	created, err := h.softwareService.Create(c.Request.Context(), &software, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"software": created})
}

// requireSoftware loads the software entry and checks contract access.
func (h *SoftwareHandler) requireSoftware(c *gin.Context, id uint) *models.Software {
	software, err := h.softwareService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if !requireContractEdit(c, h.contractService, software.ContractID) {
		return nil
	}
	return software
}

// @Summary Update software entry
// @Tags Software
// @Accept json
// @Produce json
// @Param id path int true "Software ID"
// @Param software body models.Software true "Software"
// @Success 200 {object} models.Software
// @Security BearerAuth
// @Router /software/{id} [put]
func (h *SoftwareHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireSoftware(c, id) == nil {
		return
	}

	var software models.Software
	if err := c.ShouldBindJSON(&software); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.softwareService.Update(c.Request.Context(), id, &software, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"software": updated})
}

// @Summary Delete software entry
// @Tags Software
// @Produce json
// @Param id path int true "Software ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /software/{id} [delete]
func (h *SoftwareHandler) Delete(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireSoftware(c, id) == nil {
		return
	}

	if err := h.softwareService.Delete(c.Request.Context(), id, auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "software removido"})
}

// @Summary List software comments
// @Tags Software
// @Produce json
// @Param id path int true "Software ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /software/{id}/comments [get]
func (h *SoftwareHandler) ListComments(c *gin.Context) {
	id := parseID(c, "id")
	software := h.requireSoftware(c, id)
	if software == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": software.Comments})
}

type commentRequest struct {
	Texto           string `json:"texto" binding:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// @Summary Add software comment
// @Description Optionally reply to another comment; threading is one level deep
// @Tags Software
// @Accept json
// @Produce json
// @Param id path int true "Software ID"
// @Param comment body commentRequest true "Comment"
// @Success 201 {object} models.SoftwareComment
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /software/{id}/comments [post]
func (h *SoftwareHandler) AddComment(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireSoftware(c, id) == nil {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texto é obrigatório"})
		return
	}

	comment := &models.SoftwareComment{
		Texto:           req.Texto,
		ParentCommentID: req.ParentCommentID,
		AuthorID:        middleware.GetUserID(c),
	}

	created, err := h.softwareService.AddComment(c.Request.Context(), id, comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": created})
}

// @Summary Delete software comment
// @Description Only the author or an admin may delete; replies go with it
// @Tags Software
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /comments/{id} [delete]
func (h *SoftwareHandler) DeleteComment(c *gin.Context) {
	err := h.softwareService.DeleteComment(c.Request.Context(), parseID(c, "id"),
		middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comentário removido"})
}
