package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/services"
)

type mockFichaRepo struct {
	repository.FichaRepository
	mockList func(ctx context.Context, query *repository.ListQuery) ([]models.Ficha, int64, error)
}

func (m *mockFichaRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Ficha, int64, error) {
	return m.mockList(ctx, query)
}

func newFichaListHandler(total int64) *FichaHandler {
	repo := &mockFichaRepo{
		mockList: func(ctx context.Context, query *repository.ListQuery) ([]models.Ficha, int64, error) {
			return []models.Ficha{}, total, nil
		},
	}
	return NewFichaHandler(services.NewFichaService(repo, nil, nil), nil)
}

func TestFichaIndex_Pagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		rawQuery        string
		expectedPerPage string
		expectedPages   string
	}{
		{
			name:            "Defaults",
			rawQuery:        "",
			expectedPerPage: `"per_page":20`,
			expectedPages:   `"total_pages":1`,
		},
		{
			name:            "Custom Per Page",
			rawQuery:        "?per_page=2",
			expectedPerPage: `"per_page":2`,
			expectedPages:   `"total_pages":2`,
		},
		{
			name:            "Zero Per Page Falls Back",
			rawQuery:        "?per_page=0",
			expectedPerPage: `"per_page":20`,
			expectedPages:   `"total_pages":1`,
		},
		{
			name:            "Negative Per Page Falls Back",
			rawQuery:        "?per_page=-5&page=-1",
			expectedPerPage: `"per_page":20`,
			expectedPages:   `"total_pages":1`,
		},
		{
			name:            "Non Numeric Falls Back",
			rawQuery:        "?per_page=abc&page=xyz",
			expectedPerPage: `"per_page":20`,
			expectedPages:   `"total_pages":1`,
		},
	}

	h := newFichaListHandler(3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/fichas"+tt.rawQuery, nil)

			h.Index(c)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedPerPage)
			assert.Contains(t, w.Body.String(), tt.expectedPages)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(10, 0))
	assert.Equal(t, int64(1), totalPages(1, 20))
	assert.Equal(t, int64(2), totalPages(21, 20))
	assert.Equal(t, int64(0), totalPages(0, 20))
}
