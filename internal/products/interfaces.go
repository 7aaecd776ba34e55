package products

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines catalog reads and the stock decrement used by checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}
