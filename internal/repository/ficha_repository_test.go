package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
)

// openTestDB creates an in-memory sqlite database with the ficha schema.
// Postgres-only query paths (ILIKE search) are not exercised here.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Empresa{},
		&models.Ficha{},
		&models.Experiencia{},
		&models.Formacao{},
		&models.Certificado{},
	))
	return db
}

func makeFicha(nome string) *models.Ficha {
	return &models.Ficha{
		Tipo:  models.FichaTipoInterna,
		Nome:  nome,
		Email: "teste@viaplan.com.br",
		Cargo: "Engenheiro Civil",
		Setor: "Obras",
	}
}

func TestFichaRepository_CreateAndFindByID(t *testing.T) {
	repo := NewFichaRepository(openTestDB(t))
	ctx := context.Background()

	ficha := makeFicha("Maria Souza")
	ficha.Experiencias = []models.Experiencia{
		{ID: "exp-1", Empresa: "Construtora Alfa", Cargo: "Estagiária"},
	}
	ficha.Certificados = []models.Certificado{
		{ID: "cert-1", Nome: "NR-35", Emissor: "SENAI"},
	}
	require.NoError(t, repo.Create(ctx, ficha))
	require.NotZero(t, ficha.ID)

	found, err := repo.FindByID(ctx, ficha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", found.Nome)
	require.Len(t, found.Experiencias, 1)
	assert.Equal(t, "Construtora Alfa", found.Experiencias[0].Empresa)
	require.Len(t, found.Certificados, 1)
	assert.Equal(t, "NR-35", found.Certificados[0].Nome)
}

func TestFichaRepository_FindByID_NotFound(t *testing.T) {
	repo := NewFichaRepository(openTestDB(t))

	_, err := repo.FindByID(context.Background(), 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFichaRepository_ReplaceSubLists(t *testing.T) {
	db := openTestDB(t)
	repo := NewFichaRepository(db)
	ctx := context.Background()

	ficha := makeFicha("João Lima")
	ficha.Experiencias = []models.Experiencia{
		{ID: "exp-old-1", Empresa: "Antiga", Cargo: "Auxiliar"},
		{ID: "exp-old-2", Empresa: "Antiga 2", Cargo: "Auxiliar"},
	}
	ficha.Formacoes = []models.Formacao{
		{ID: "form-old", Instituicao: "UFMG", Curso: "Engenharia"},
	}
	require.NoError(t, repo.Create(ctx, ficha))

	ficha.Experiencias = []models.Experiencia{
		{ID: "exp-new", FichaID: ficha.ID, Empresa: "Nova", Cargo: "Engenheiro"},
	}
	ficha.Formacoes = nil
	ficha.Certificados = []models.Certificado{
		{ID: "cert-new", FichaID: ficha.ID, Nome: "CREA"},
	}
	require.NoError(t, repo.ReplaceSubLists(ctx, ficha))

	found, err := repo.FindByID(ctx, ficha.ID)
	require.NoError(t, err)
	require.Len(t, found.Experiencias, 1)
	assert.Equal(t, "Nova", found.Experiencias[0].Empresa)
	assert.Empty(t, found.Formacoes)
	require.Len(t, found.Certificados, 1)

	// Old rows are gone, not orphaned
	var count int64
	require.NoError(t, db.Model(&models.Experiencia{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFichaRepository_Update_DoesNotTouchSubLists(t *testing.T) {
	repo := NewFichaRepository(openTestDB(t))
	ctx := context.Background()

	ficha := makeFicha("Ana Paula")
	ficha.Experiencias = []models.Experiencia{
		{ID: "exp-1", Empresa: "Alfa", Cargo: "Técnica"},
	}
	require.NoError(t, repo.Create(ctx, ficha))

	ficha.Nome = "Ana Paula Ribeiro"
	ficha.Experiencias = nil
	require.NoError(t, repo.Update(ctx, ficha))

	found, err := repo.FindByID(ctx, ficha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula Ribeiro", found.Nome)
	assert.Len(t, found.Experiencias, 1)
}

func TestFichaRepository_Delete(t *testing.T) {
	repo := NewFichaRepository(openTestDB(t))
	ctx := context.Background()

	ficha := makeFicha("Carlos Dias")
	require.NoError(t, repo.Create(ctx, ficha))
	require.NoError(t, repo.Delete(ctx, ficha.ID))

	_, err := repo.FindByID(ctx, ficha.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFichaRepository_List(t *testing.T) {
	repo := NewFichaRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeFicha("Bruno")))
	require.NoError(t, repo.Create(ctx, makeFicha("Amanda")))
	cliente := makeFicha("Zeca")
	cliente.Tipo = models.FichaTipoCliente
	require.NoError(t, repo.Create(ctx, cliente))

	t.Run("Filters By Tipo", func(t *testing.T) {
		query := NewListQuery()
		query.Filters["tipo"] = models.FichaTipoCliente

		fichas, total, err := repo.List(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, fichas, 1)
		assert.Equal(t, "Zeca", fichas[0].Nome)
	})

	t.Run("Default Order Is Nome Ascending", func(t *testing.T) {
		fichas, total, err := repo.List(ctx, NewListQuery())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, fichas, 3)
		assert.Equal(t, "Amanda", fichas[0].Nome)
		assert.Equal(t, "Zeca", fichas[2].Nome)
	})

	t.Run("Sorts By Whitelisted Column", func(t *testing.T) {
		query := NewListQuery()
		query.SortBy = "nome"
		query.SortDir = "desc"

		fichas, _, err := repo.List(ctx, query)
		require.NoError(t, err)
		require.Len(t, fichas, 3)
		assert.Equal(t, "Zeca", fichas[0].Nome)
	})

	t.Run("Ignores Unknown Sort Expression", func(t *testing.T) {
		query := NewListQuery()
		query.SortBy = "(SELECT CASE WHEN (SELECT COUNT(*) FROM users) >= 0 THEN nome ELSE cpf END)"

		fichas, _, err := repo.List(ctx, query)
		require.NoError(t, err)
		require.Len(t, fichas, 3)
		assert.Equal(t, "Amanda", fichas[0].Nome)
	})

	t.Run("Paginates", func(t *testing.T) {
		query := NewListQuery()
		query.Page = 2
		query.PerPage = 2

		fichas, total, err := repo.List(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, fichas, 1)
	})
}
