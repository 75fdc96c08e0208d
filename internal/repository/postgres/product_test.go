package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
	"github.com/menstyle/storefront/pkg/database"
	apperrors "github.com/menstyle/storefront/pkg/errors"
)

func newTestProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          "prod-001",
		Name:        "Camisa Polo",
		Slug:        "camisa-polo",
		Description: "Camisa polo de algodão",
		Price:       7990,
		Sizes:       []string{"P", "M", "G"},
		Stock:       12,
		ImageURL:    "https://cdn.example.com/camisa-polo.jpg",
		Category:    "Camisas",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRows(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "sizes", "stock",
		"image_url", "category", "created_at", "updated_at",
	}).AddRow(
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Sizes, p.Stock,
		p.ImageURL, p.Category, p.CreatedAt, p.UpdatedAt,
	)
}

// --- GetByID Tests ---

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRows(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Sizes, got.Sizes)
	assert.Equal(t, p.Stock, got.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestProductRepository_List_NoFilters(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	rows := pgxmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "sizes", "stock",
		"image_url", "category", "created_at", "updated_at", "total_count",
	}).AddRow(
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Sizes, p.Stock,
		p.ImageURL, p.Category, p.CreatedAt, p.UpdatedAt, 1,
	)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_AllFilters(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	rows := pgxmock.NewRows([]string{
		"id", "name", "slug", "description", "price", "sizes", "stock",
		"image_url", "category", "created_at", "updated_at", "total_count",
	}).AddRow(
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Sizes, p.Stock,
		p.ImageURL, p.Category, p.CreatedAt, p.UpdatedAt, 1,
	)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs("Camisas", "M", "%polo%", 10, 0).
		WillReturnRows(rows)

	filter := repository.ProductFilter{
		Category:    "Camisas",
		Size:        "M",
		Search:      "polo",
		InStockOnly: true,
		Page:        1,
		PerPage:     10,
	}

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Featured Tests ---

func TestProductRepository_Featured(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(4).
		WillReturnRows(productRows(p))

	products, err := repo.Featured(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Mutation Tests ---

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Slug, p.Description, p.Price, p.Sizes, p.Stock,
			p.ImageURL, p.Category, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Slug, p.Description, p.Price, p.Sizes, p.Stock,
			p.ImageURL, p.Category, p.UpdatedAt, p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdateStock_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("UPDATE products SET stock").
		WithArgs(9, pgxmock.AnyArg(), "prod-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdateStock(context.Background(), "prod-001", 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdateStock_NotFound(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("UPDATE products SET stock").
		WithArgs(9, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStock(context.Background(), "missing", 9)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdatePrice_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("UPDATE products SET price").
		WithArgs(int64(8990), pgxmock.AnyArg(), "prod-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdatePrice(context.Background(), "prod-001", 8990))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "prod-001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Categories / Stats Tests ---

func TestProductRepository_Categories(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectQuery("SELECT DISTINCT category FROM products").
		WillReturnRows(pgxmock.NewRows([]string{"category"}).
			AddRow("Bermudas").
			AddRow("Camisas"))

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bermudas", "Camisas"}, categories)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Stats(t *testing.T) {
	repo, mock := newTestProductRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(domain.LowStockThreshold).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum", "low"}).
			AddRow(25, int64(340), 3))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, stats.Count)
	assert.Equal(t, int64(340), stats.TotalUnits)
	assert.Equal(t, 3, stats.LowStock)

	assert.NoError(t, mock.ExpectationsWereMet())
}
