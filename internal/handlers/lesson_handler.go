package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/services"
)

// LessonHandler handles lessons-learned endpoints
type LessonHandler struct {
	lessonService   *services.LessonService
	contractService *services.ContractService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *services.LessonService, contractService *services.ContractService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService, contractService: contractService}
}

// @Summary List contract lessons
// @Tags Lessons
// @Produce json
// @Param id path int true "Contract ID"
// @Param tipo query string false "DIFICULDADE or APRENDIZADO"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/lessons [get]
func (h *LessonHandler) Index(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	lessons, err := h.lessonService.ListByContract(c.Request.Context(), contractID, c.Query("tipo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// @Summary Create lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param lesson body models.Lesson true "Lesson"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	var lesson models.Lesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	lesson.ContractID = contractID

	created, err := h.lessonService.Create(c.Request.Context(), &lesson, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": created})
}

// requireLesson loads the lesson and checks contract access.
func (h *LessonHandler) requireLesson(c *gin.Context, id uint) *models.Lesson {
	lesson, err := h.lessonService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if !requireContractEdit(c, h.contractService, lesson.ContractID) {
		return nil
	}
	return lesson
}

// @Summary Update lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param lesson body models.Lesson true "Lesson"
// @Success 200 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireLesson(c, id) == nil {
		return
	}

	var lesson models.Lesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.lessonService.Update(c.Request.Context(), id, &lesson, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": updated})
}

// @Summary Delete lesson
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireLesson(c, id) == nil {
		return
	}

	if err := h.lessonService.Delete(c.Request.Context(), id, auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lição removida"})
}
