package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/middleware"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	contractService *services.ContractService
	auditService    *services.AuditService
	exportService   *services.ExportService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *services.ContractService, auditService *services.AuditService, exportService *services.ExportService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		auditService:    auditService,
		exportService:   exportService,
	}
}

// @Summary List contracts
// @Description Paginated contracts visible to the current user
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search term"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) Index(c *gin.Context) {
	query := &repository.ContractQuery{ListQuery: repository.NewListQuery()}
	pageParams(c, query.ListQuery)
	query.Search = c.Query("search")
	query.Status = c.Query("status")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.DefaultQuery("sort_dir", "asc")
	if setor := c.Query("setor"); setor != "" {
		query.Filters["setor"] = setor
	}
	query.UserID = middleware.GetUserID(c)
	query.IsAdmin = middleware.IsAdmin(c)

	contracts, total, err := h.contractService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, contracts[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Get contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} models.ContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) Show(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary Create contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param contract body models.Contract true "Contract"
// @Success 201 {object} models.ContractResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	created, err := h.contractService.Create(c.Request.Context(), &contract, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": created.ToResponse()})
}

// @Summary Update contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param contract body models.Contract true "Contract"
// @Success 200 {object} models.ContractResponse
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.contractService.Update(c.Request.Context(), id, &contract, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": updated.ToResponse()})
}

// @Summary Delete contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	err := h.contractService.Delete(c.Request.Context(), parseID(c, "id"),
		middleware.GetUserID(c), middleware.IsAdmin(c), auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contrato removido"})
}

type statusRequest struct {
	Event string `json:"event" binding:"required"`
}

// @Summary Change contract status
// @Description Apply a lifecycle event: activate, close or cancel
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param body body statusRequest true "Event"
// @Success 200 {object} models.ContractResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/status [put]
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event é obrigatório"})
		return
	}

	contract, err := h.contractService.Transition(c.Request.Context(), id, req.Event, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type participantsRequest struct {
	Participants []models.ContractParticipant `json:"participants"`
}

// @Summary Replace contract participants
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param body body participantsRequest true "Participants"
// @Success 200 {object} models.ContractResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/participants [put]
func (h *ContractHandler) SetParticipants(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	var req participantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	contract, err := h.contractService.SetParticipants(c.Request.Context(), id, req.Participants, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

type participationsRequest struct {
	Participations []models.CompanyParticipation `json:"participations"`
}

// @Summary Replace company participations
// @Description Replaces the percentage split; the response carries the
// computed participation summary
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param body body participationsRequest true "Participations"
// @Success 200 {object} models.ContractResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/participations [put]
func (h *ContractHandler) SetParticipations(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	var req participationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	contract, err := h.contractService.SetParticipations(c.Request.Context(), id, req.Participations, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract.ToResponse()})
}

// @Summary List contract editors
// @Tags Editors
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/editors [get]
func (h *ContractHandler) ListEditors(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	editors, err := h.contractService.ListEditors(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editors": editors})
}

type addEditorRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Add contract editor
// @Description Invite a user by e-mail; they are notified asynchronously
// @Tags Editors
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param body body addEditorRequest true "User e-mail"
// @Success 201 {object} models.ContractEditor
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/editors [post]
func (h *ContractHandler) AddEditor(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	var req addEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "e-mail é obrigatório"})
		return
	}

	editor, err := h.contractService.AddEditor(c.Request.Context(), id, req.Email, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"editor": editor})
}

// @Summary Remove contract editor
// @Tags Editors
// @Produce json
// @Param id path int true "Contract ID"
// @Param editor_id path int true "Editor ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/editors/{editor_id} [delete]
func (h *ContractHandler) RemoveEditor(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	err := h.contractService.RemoveEditor(c.Request.Context(), id, parseID(c, "editor_id"), auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "editor removido"})
}

// @Summary Contract audit trail
// @Description Paginated audit entries, filterable by action and user
// @Tags Audit
// @Produce json
// @Param id path int true "Contract ID"
// @Param action query string false "CREATE, UPDATE, DELETE, STATUS_CHANGE"
// @Param user_id query int false "Filter by actor"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/audit [get]
func (h *ContractHandler) Audit(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	query := &repository.AuditQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 50
	pageParams(c, query.ListQuery)
	query.ContractID = &id
	query.Action = c.Query("action")
	if userParam := c.Query("user_id"); userParam != "" {
		if uid, err := strconv.ParseUint(userParam, 10, 32); err == nil {
			u := uint(uid)
			query.UserID = &u
		}
	}

	entries, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit": entries,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Contract lamina PDF
// @Description One-page contract summary for download
// @Tags Contracts
// @Produce application/pdf
// @Param id path int true "Contract ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/lamina [get]
func (h *ContractHandler) Lamina(c *gin.Context) {
	id := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, id) {
		return
	}

	data, filename, err := h.exportService.ContractLamina(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
