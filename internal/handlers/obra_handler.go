package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
	"github.com/viaplan/viaplan-api/internal/storage"
)

// ObraHandler handles obra, non-conformity and geometry endpoints
type ObraHandler struct {
	obraService     *services.ObraService
	contractService *services.ContractService
	storage         storage.Storage
	publicBaseURL   string
}

// NewObraHandler creates a new obra handler
func NewObraHandler(obraService *services.ObraService, contractService *services.ContractService, store storage.Storage, publicBaseURL string) *ObraHandler {
	return &ObraHandler{
		obraService:     obraService,
		contractService: contractService,
		storage:         store,
		publicBaseURL:   publicBaseURL,
	}
}

// requireObra loads the obra and checks contract access in one step.
// Returns nil after writing the response when access is denied.
func (h *ObraHandler) requireObra(c *gin.Context, obraID uint) *models.Obra {
	obra, err := h.obraService.GetByID(c.Request.Context(), obraID)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if !requireContractEdit(c, h.contractService, obra.ContractID) {
		return nil
	}
	return obra
}

// @Summary List contract obras
// @Tags Obras
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/obras [get]
func (h *ObraHandler) Index(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	obras, err := h.obraService.ListByContract(c.Request.Context(), contractID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"obras": obras})
}

// @Summary Create obra
// @Tags Obras
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param obra body models.Obra true "Obra"
// @Success 201 {object} models.Obra
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/obras [post]
func (h *ObraHandler) Create(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	var obra models.Obra
	if err := c.ShouldBindJSON(&obra); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	obra.ContractID = contractID

	created, err := h.obraService.Create(c.Request.Context(), &obra, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"obra": created})
}

// @Summary Update obra
// @Tags Obras
// @Accept json
// @Produce json
// @Param id path int true "Obra ID"
// @Param obra body models.Obra true "Obra"
// @Success 200 {object} models.Obra
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /obras/{id} [put]
func (h *ObraHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireObra(c, id) == nil {
		return
	}

	var obra models.Obra
	if err := c.ShouldBindJSON(&obra); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.obraService.Update(c.Request.Context(), id, &obra, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"obra": updated})
}

// @Summary Delete obra
// @Tags Obras
// @Produce json
// @Param id path int true "Obra ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /obras/{id} [delete]
func (h *ObraHandler) Delete(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireObra(c, id) == nil {
		return
	}

	if err := h.obraService.Delete(c.Request.Context(), id, auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "obra removida"})
}

func ncQueryFrom(c *gin.Context) *repository.NonConformityQuery {
	return &repository.NonConformityQuery{
		Status:     c.Query("status"),
		Severidade: c.Query("severidade"),
	}
}

// @Summary List obra non-conformities
// @Tags Non-conformities
// @Produce json
// @Param id path int true "Obra ID"
// @Param status query string false "Filter by status"
// @Param severidade query string false "Filter by severity"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /obras/{id}/non-conformities [get]
func (h *ObraHandler) ListNonConformities(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireObra(c, id) == nil {
		return
	}

	ncs, err := h.obraService.ListNonConformities(c.Request.Context(), id, ncQueryFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.NonConformityResponse, 0, len(ncs))
	for i := range ncs {
		responses = append(responses, ncs[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"non_conformities": responses})
}

// @Summary List contract non-conformities
// @Description All non-conformities across the contract's obras
// @Tags Non-conformities
// @Produce json
// @Param id path int true "Contract ID"
// @Param status query string false "Filter by status"
// @Param severidade query string false "Filter by severity"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/non-conformities [get]
func (h *ObraHandler) ListContractNonConformities(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	ncs, err := h.obraService.ListContractNonConformities(c.Request.Context(), contractID, ncQueryFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.NonConformityResponse, 0, len(ncs))
	for i := range ncs {
		responses = append(responses, ncs[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"non_conformities": responses})
}

// @Summary Create non-conformity
// @Tags Non-conformities
// @Accept json
// @Produce json
// @Param id path int true "Obra ID"
// @Param nc body models.NonConformity true "Non-conformity"
// @Success 201 {object} models.NonConformityResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /obras/{id}/non-conformities [post]
func (h *ObraHandler) CreateNonConformity(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireObra(c, id) == nil {
		return
	}

	var nc models.NonConformity
	if err := c.ShouldBindJSON(&nc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	nc.ObraID = id

	created, err := h.obraService.CreateNonConformity(c.Request.Context(), &nc, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"non_conformity": created.ToResponse()})
}

// requireNonConformity loads the NC and checks access through its obra.
func (h *ObraHandler) requireNonConformity(c *gin.Context, ncID uint) *models.NonConformity {
	nc, err := h.obraService.GetNonConformity(c.Request.Context(), ncID)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if h.requireObra(c, nc.ObraID) == nil {
		return nil
	}
	return nc
}

// @Summary Update non-conformity
// @Tags Non-conformities
// @Accept json
// @Produce json
// @Param id path int true "Non-conformity ID"
// @Param nc body models.NonConformity true "Non-conformity"
// @Success 200 {object} models.NonConformityResponse
// @Security BearerAuth
// @Router /non-conformities/{id} [put]
func (h *ObraHandler) UpdateNonConformity(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireNonConformity(c, id) == nil {
		return
	}

	var nc models.NonConformity
	if err := c.ShouldBindJSON(&nc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.obraService.UpdateNonConformity(c.Request.Context(), id, &nc, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"non_conformity": updated.ToResponse()})
}

// @Summary Delete non-conformity
// @Tags Non-conformities
// @Produce json
// @Param id path int true "Non-conformity ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /non-conformities/{id} [delete]
func (h *ObraHandler) DeleteNonConformity(c *gin.Context) {
	id := parseID(c, "id")
	nc := h.requireNonConformity(c, id)
	if nc == nil {
		return
	}

	if err := h.obraService.DeleteNonConformity(c.Request.Context(), id, auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}

	for i := range nc.Fotos {
		if nc.Fotos[i].StoragePath != "" {
			if err := h.storage.Delete(c.Request.Context(), nc.Fotos[i].StoragePath); err != nil {
				// orphaned files are cleaned up out of band
				continue
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "não conformidade removida"})
}

// @Summary Change non-conformity status
// @Description Apply a lifecycle event: analyze, resolve or cancel
// @Tags Non-conformities
// @Accept json
// @Produce json
// @Param id path int true "Non-conformity ID"
// @Param body body statusRequest true "Event"
// @Success 200 {object} models.NonConformityResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /non-conformities/{id}/status [put]
func (h *ObraHandler) UpdateNonConformityStatus(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireNonConformity(c, id) == nil {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event é obrigatório"})
		return
	}

	nc, err := h.obraService.TransitionNonConformity(c.Request.Context(), id, req.Event, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"non_conformity": nc.ToResponse()})
}

// @Summary Upload non-conformity photo
// @Tags Non-conformities
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Non-conformity ID"
// @Param photo formData file true "Photo file"
// @Success 201 {object} models.NCPhoto
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /non-conformities/{id}/photos [post]
func (h *ObraHandler) AddNonConformityPhoto(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireNonConformity(c, id) == nil {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo é obrigatório"})
		return
	}
	if fileHeader.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo excede o tamanho máximo de 10MB"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.IsValidContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipo de arquivo não permitido"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "não foi possível ler o arquivo"})
		return
	}
	defer file.Close()

	path, err := h.storage.Save(c.Request.Context(), file, fileHeader.Size, fileHeader.Filename, "nc-photos")
	if err != nil {
		respondError(c, err)
		return
	}

	url := fmt.Sprintf("%s/files/%s", h.publicBaseURL, path)
	photo, err := h.obraService.AddNonConformityPhoto(c.Request.Context(), id, url, path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"foto": photo})
}

// @Summary Delete non-conformity photo
// @Tags Non-conformities
// @Produce json
// @Param id path int true "Non-conformity ID"
// @Param photo_id path string true "Photo ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /non-conformities/{id}/photos/{photo_id} [delete]
func (h *ObraHandler) DeleteNonConformityPhoto(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireNonConformity(c, id) == nil {
		return
	}

	storagePath, err := h.obraService.RemoveNonConformityPhoto(c.Request.Context(), c.Param("photo_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if storagePath != "" {
		_ = h.storage.Delete(c.Request.Context(), storagePath)
	}
	c.JSON(http.StatusOK, gin.H{"message": "foto removida"})
}

// kmParam parses the km query parameter and checks it against the obra segment.
func kmParam(c *gin.Context, obra *models.Obra) (float64, bool) {
	km, err := strconv.ParseFloat(c.Query("km"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "km é obrigatório e deve ser numérico"})
		return 0, false
	}
	if !obra.ContainsKM(km) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("km %.3f fora do trecho da obra (%.3f a %.3f)", km, obra.KmInicial, obra.KmFinal),
		})
		return 0, false
	}
	return km, true
}

// @Summary Resolve km to a route location
// @Description Proxies the external geometry service for the obra's highway
// @Tags Geometry
// @Produce json
// @Param id path int true "Obra ID"
// @Param km query number true "Kilometer marker"
// @Success 200 {object} geo.KMLocation
// @Failure 502 {object} map[string]string
// @Security BearerAuth
// @Router /obras/{id}/km-location [get]
func (h *ObraHandler) KMLocation(c *gin.Context) {
	obra := h.requireObra(c, parseID(c, "id"))
	if obra == nil {
		return
	}
	km, ok := kmParam(c, obra)
	if !ok {
		return
	}

	loc, err := h.obraService.KMLocation(c.Request.Context(), obra.Rodovia, obra.UF, km)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// @Summary Resolve km to coordinates
// @Tags Geometry
// @Produce json
// @Param id path int true "Obra ID"
// @Param km query number true "Kilometer marker"
// @Success 200 {object} geo.Coordinates
// @Failure 502 {object} map[string]string
// @Security BearerAuth
// @Router /obras/{id}/coordinates-from-km [get]
func (h *ObraHandler) CoordinatesFromKM(c *gin.Context) {
	obra := h.requireObra(c, parseID(c, "id"))
	if obra == nil {
		return
	}
	km, ok := kmParam(c, obra)
	if !ok {
		return
	}

	coords, err := h.obraService.CoordinatesFromKM(c.Request.Context(), obra.Rodovia, obra.UF, km)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coordinates": coords})
}
