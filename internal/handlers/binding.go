package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viaplan/viaplan-api/internal/middleware"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
)

// parseID reads a numeric path param. Returns 0 when absent or invalid;
// callers treat 0 as not found.
func parseID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}

// pageParams fills pagination fields from the query string. Missing,
// malformed or non-positive values keep the query's defaults so the page
// math downstream never sees a zero page size.
func pageParams(c *gin.Context, query *repository.ListQuery) {
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 {
		query.PerPage = perPage
	}
}

// totalPages computes the page count for a paginated response
func totalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// auditMeta seeds an audit entry with the request's actor and origin
func auditMeta(c *gin.Context) services.AuditEntry {
	return services.AuditEntry{
		UserID:    middleware.GetUserID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// respondError maps service errors to HTTP statuses with the standard
// {"error": msg} body. Security blocks additionally carry their code.
func respondError(c *gin.Context, err error) {
	var secErr *services.SecurityError
	if errors.As(err, &secErr) {
		status := http.StatusForbidden
		if secErr.Code == services.SecurityCodeRateLimit {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": secErr.Message, "code": secErr.Code})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrDuplicate),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, services.ErrFolderNotEmpty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// requireContractEdit aborts with 403 unless the current user may mutate
// the contract. Returns false when aborted.
func requireContractEdit(c *gin.Context, contractSvc *services.ContractService, contractID uint) bool {
	ok, err := contractSvc.CanEdit(c.Request.Context(), contractID, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "você não tem permissão para editar este contrato"})
		return false
	}
	return true
}
