package products

import (
	"context"
	"fmt"

	"github.com/chitts/storefront-backend/pkg/db/models"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryDetail pairs a category with its products for the category screen.
type CategoryDetail struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// Service exposes storefront catalog reads.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*CategoryDetail, error)
}

// StockDecrementer is consumed by checkout to reduce inventory after payment.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	out, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return out, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return out, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*CategoryDetail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug required")
	}
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	items, err := s.repo.ListProductsByCategory(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category products")
	}
	return &CategoryDetail{Category: *category, Products: items}, nil
}

type stockDecrementerImpl struct {
	repo Repository
}

// NewStockDecrementer exposes the default stock decrement implementation.
func NewStockDecrementer(repo Repository) StockDecrementer {
	return stockDecrementerImpl{repo: repo}
}

func (d stockDecrementerImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	repo := d.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.DecrementStock(ctx, productID, qty); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
	return nil
}
