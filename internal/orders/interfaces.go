package orders

import (
	"context"

	"github.com/chitts/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their unit rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindBySlug(ctx context.Context, slug string) (*models.Order, error)
}
