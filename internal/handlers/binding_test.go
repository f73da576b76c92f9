package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
	"github.com/viaplan/viaplan-api/internal/storage"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "Not Found",
			err:    fmt.Errorf("%w: contrato não encontrado", services.ErrNotFound),
			status: http.StatusNotFound,
		},
		{
			name:   "Forbidden",
			err:    services.ErrForbidden,
			status: http.StatusForbidden,
		},
		{
			name:   "Unauthorized",
			err:    fmt.Errorf("%w: credenciais inválidas", services.ErrUnauthorized),
			status: http.StatusForbidden,
		},
		{
			name:   "Validation",
			err:    fmt.Errorf("%w: nome é obrigatório", services.ErrValidation),
			status: http.StatusBadRequest,
		},
		{
			name:   "Invalid State",
			err:    fmt.Errorf("%w: transição não permitida", services.ErrInvalidState),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "Duplicate",
			err:    services.ErrDuplicate,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "Repository Duplicate",
			err:    repository.ErrDuplicate,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "Folder Not Empty",
			err:    services.ErrFolderNotEmpty,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "Upstream",
			err:    fmt.Errorf("%w: serviço de geometria indisponível", services.ErrUpstream),
			status: http.StatusBadGateway,
		},
		{
			name:   "Unknown Error",
			err:    errors.New("falha inesperada"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRespondError_SecurityError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Blocked Carries Code", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, &services.SecurityError{
			Code:    services.SecurityCodeUserBlocked,
			Message: "conta temporariamente bloqueada",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), services.SecurityCodeUserBlocked)
		assert.Contains(t, w.Body.String(), "conta temporariamente bloqueada")
	})

	t.Run("Rate Limit Is 429", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, &services.SecurityError{
			Code:    services.SecurityCodeRateLimit,
			Message: "muitas tentativas, aguarde um minuto",
		})

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), services.SecurityCodeRateLimit)
	})
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		value    string
		expected uint
	}{
		{name: "Valid", value: "42", expected: 42},
		{name: "Zero", value: "0", expected: 0},
		{name: "Negative", value: "-1", expected: 0},
		{name: "Not A Number", value: "abc", expected: 0},
		{name: "Empty", value: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			assert.Equal(t, tt.expected, parseID(c, "id"))
		})
	}
}

type mockStorage struct {
	storage.Storage
	mockOpen func(ctx context.Context, relativePath string) (io.ReadCloser, error)
}

func (m *mockStorage) Open(ctx context.Context, relativePath string) (io.ReadCloser, error) {
	return m.mockOpen(ctx, relativePath)
}

func TestUploadHandler_Serve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Rejects Path Traversal", func(t *testing.T) {
		opened := false
		h := NewUploadHandler(&mockStorage{
			mockOpen: func(ctx context.Context, relativePath string) (io.ReadCloser, error) {
				opened = true
				return nil, nil
			},
		}, "http://localhost:8080")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/files/x", nil)
		c.Params = gin.Params{{Key: "path", Value: "/../config/.env"}}

		h.Serve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "caminho inválido")
		assert.False(t, opened)
	})

	t.Run("Missing File Is 404", func(t *testing.T) {
		h := NewUploadHandler(&mockStorage{
			mockOpen: func(ctx context.Context, relativePath string) (io.ReadCloser, error) {
				return nil, errors.New("no such file")
			},
		}, "http://localhost:8080")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/files/x", nil)
		c.Params = gin.Params{{Key: "path", Value: "/nc-photos/missing.png"}}

		h.Serve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Streams Stored Content", func(t *testing.T) {
		var requested string
		h := NewUploadHandler(&mockStorage{
			mockOpen: func(ctx context.Context, relativePath string) (io.ReadCloser, error) {
				requested = relativePath
				return io.NopCloser(strings.NewReader("conteudo")), nil
			},
		}, "http://localhost:8080")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/files/x", nil)
		c.Params = gin.Params{{Key: "path", Value: "/ficha-photos/foto.png"}}

		h.Serve(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ficha-photos/foto.png", requested)
		assert.Equal(t, "conteudo", w.Body.String())
	})
}
