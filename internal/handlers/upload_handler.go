package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/storage"
)

// UploadHandler handles standalone uploads and file serving
type UploadHandler struct {
	storage       storage.Storage
	publicBaseURL string
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store storage.Storage, publicBaseURL string) *UploadHandler {
	return &UploadHandler{storage: store, publicBaseURL: publicBaseURL}
}

// @Summary Upload ficha photo
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo file"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /upload/ficha-photo [post]
func (h *UploadHandler) FichaPhoto(c *gin.Context) {
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

	path, err := h.storage.Save(c.Request.Context(), file, fileHeader.Size, fileHeader.Filename, "ficha-photos")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url": fmt.Sprintf("%s/files/%s", h.publicBaseURL, path),
	})
}

// Serve streams a stored file back to the client.
func (h *UploadHandler) Serve(c *gin.Context) {
	relPath := strings.TrimPrefix(c.Param("path"), "/")
	if relPath == "" || strings.Contains(relPath, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "caminho inválido"})
		return
	}

	reader, err := h.storage.Open(c.Request.Context(), relPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "arquivo não encontrado"})
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
