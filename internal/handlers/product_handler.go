package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/services"
	"github.com/viaplan/viaplan-api/internal/storage"
)

// ProductHandler handles the contract document tree (folders and files)
type ProductHandler struct {
	productService  *services.ProductService
	contractService *services.ContractService
	storage         storage.Storage
	publicBaseURL   string
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService, contractService *services.ContractService, store storage.Storage, publicBaseURL string) *ProductHandler {
	return &ProductHandler{
		productService:  productService,
		contractService: contractService,
		storage:         store,
		publicBaseURL:   publicBaseURL,
	}
}

// @Summary List contract folders
// @Description Flat listing of the contract's folder tree with files
// @Tags Products
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contracts/{id}/products/folders [get]
func (h *ProductHandler) ListFolders(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	folders, err := h.productService.ListFolders(c.Request.Context(), contractID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

type folderRequest struct {
	Nome     string `json:"nome" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// @Summary Create folder
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param folder body folderRequest true "Folder"
// @Success 201 {object} models.ProductFolder
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{id}/products/folders [post]
func (h *ProductHandler) CreateFolder(c *gin.Context) {
	contractID := parseID(c, "id")
	if !requireContractEdit(c, h.contractService, contractID) {
		return
	}

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome é obrigatório"})
		return
	}

	folder := &models.ProductFolder{
		ContractID: contractID,
		ParentID:   req.ParentID,
		Nome:       req.Nome,
	}

	created, err := h.productService.CreateFolder(c.Request.Context(), folder, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder": created})
}

// requireFolder loads the folder and checks contract access.
func (h *ProductHandler) requireFolder(c *gin.Context, id uint) *models.ProductFolder {
	folder, err := h.productService.GetFolder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil
	}
	if !requireContractEdit(c, h.contractService, folder.ContractID) {
		return nil
	}
	return folder
}

type folderUpdateRequest struct {
	Nome     string `json:"nome"`
	ParentID *uint  `json:"parent_id"`
}

// @Summary Rename or move folder
// @Description Moving a folder under itself or a descendant is rejected
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Folder ID"
// @Param folder body folderUpdateRequest true "Folder changes"
// @Success 200 {object} models.ProductFolder
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /products/folders/{id} [put]
func (h *ProductHandler) UpdateFolder(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireFolder(c, id) == nil {
		return
	}

	var req folderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	folder, err := h.productService.UpdateFolder(c.Request.Context(), id, req.Nome, req.ParentID, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder})
}

// @Summary Delete folder
// @Description The folder must be empty
// @Tags Products
// @Produce json
// @Param id path int true "Folder ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /products/folders/{id} [delete]
func (h *ProductHandler) DeleteFolder(c *gin.Context) {
	id := parseID(c, "id")
	if h.requireFolder(c, id) == nil {
		return
	}

	if err := h.productService.DeleteFolder(c.Request.Context(), id, auditMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pasta removida"})
}

// @Summary Upload file into a folder
// @Tags Products
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Folder ID"
// @Param file formData file true "Document"
// @Success 201 {object} models.ProductFile
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /products/folders/{id}/files [post]
func (h *ProductHandler) CreateFile(c *gin.Context) {
	id := parseID(c, "id")
	folder := h.requireFolder(c, id)
	if folder == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
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

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "não foi possível ler o arquivo"})
		return
	}
	defer src.Close()

	path, err := h.storage.Save(c.Request.Context(), src, fileHeader.Size, fileHeader.Filename, "products")
	if err != nil {
		respondError(c, err)
		return
	}

	file := &models.ProductFile{
		FolderID:    id,
		Nome:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
		StoragePath: path,
		URL:         fmt.Sprintf("%s/files/%s", h.publicBaseURL, path),
	}

	created, err := h.productService.CreateFile(c.Request.Context(), file, auditMeta(c))
	if err != nil {
		_ = h.storage.Delete(c.Request.Context(), path)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": created})
}

type fileUpdateRequest struct {
	Nome     string `json:"nome"`
	FolderID *uint  `json:"folder_id"`
}

// @Summary Rename or move file
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "File ID"
// @Param file body fileUpdateRequest true "File changes"
// @Success 200 {object} models.ProductFile
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /products/files/{id} [put]
func (h *ProductHandler) UpdateFile(c *gin.Context) {
	id := parseID(c, "id")
	file, err := h.productService.GetFile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !requireContractEdit(c, h.contractService, file.ContractID) {
		return
	}

	var req fileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	updated, err := h.productService.UpdateFile(c.Request.Context(), id, req.Nome, req.FolderID, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": updated})
}

// @Summary Delete file
// @Tags Products
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /products/files/{id} [delete]
func (h *ProductHandler) DeleteFile(c *gin.Context) {
	id := parseID(c, "id")
	file, err := h.productService.GetFile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !requireContractEdit(c, h.contractService, file.ContractID) {
		return
	}

	storagePath, err := h.productService.DeleteFile(c.Request.Context(), id, auditMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if storagePath != "" {
		_ = h.storage.Delete(c.Request.Context(), storagePath)
	}
	c.JSON(http.StatusOK, gin.H{"message": "arquivo removido"})
}
