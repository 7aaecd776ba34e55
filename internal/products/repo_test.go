package products

import (
	"context"
	"testing"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  image_ref TEXT,
  created_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  unit_price NUMERIC NOT NULL,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  hero_image_ref TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{categories, products} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, title, slug string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Title:      title,
		Slug:       slug,
		UnitPrice:  decimal.RequireFromString("2.50"),
		StockQty:   stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListProductsSorted(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	category := seedCategory(t, db, "Sodas", "sodas")

	seedCatalogProduct(t, db, category.ID, "Root Beer", "root-beer", 5)
	seedCatalogProduct(t, db, category.ID, "Cola", "cola", 5)

	out, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Cola", out[0].Title)
	assert.Equal(t, "Root Beer", out[1].Title)
}

func TestRepositoryFindProductBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	category := seedCategory(t, db, "Sodas", "sodas")
	seeded := seedCatalogProduct(t, db, category.ID, "Cola", "cola", 5)

	product, err := repo.FindProductBySlug(context.Background(), "cola")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, product.ID)

	_, err = repo.FindProductBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListProductsByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	sodas := seedCategory(t, db, "Sodas", "sodas")
	snacks := seedCategory(t, db, "Snacks", "snacks")
	seedCatalogProduct(t, db, sodas.ID, "Cola", "cola", 5)
	seedCatalogProduct(t, db, snacks.ID, "Pretzels", "pretzels", 5)

	out, err := repo.ListProductsByCategory(context.Background(), sodas.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Cola", out[0].Title)
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	category := seedCategory(t, db, "Sodas", "sodas")
	product := seedCatalogProduct(t, db, category.ID, "Cola", "cola", 5)

	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 3))

	var got models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&got).Error)
	assert.Equal(t, 2, got.StockQty)
}

func TestRepositoryDecrementStockFloorsAtZero(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	category := seedCategory(t, db, "Sodas", "sodas")
	product := seedCatalogProduct(t, db, category.ID, "Cola", "cola", 2)

	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 10))

	var got models.Product
	require.NoError(t, db.Where("id = ?", product.ID).First(&got).Error)
	assert.Equal(t, 0, got.StockQty)
}

func TestRepositoryDecrementStockUnknownProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	err := repo.DecrementStock(context.Background(), uuid.New(), 1)
	require.Error(t, err)
}
