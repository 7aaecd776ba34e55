package orders

import (
	"context"
	"fmt"

	"github.com/chitts/storefront-backend/pkg/db/models"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes order history reads for the storefront.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return out, nil
}

func (s *service) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order slug required")
	}
	order, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		// Hide other users' orders behind not-found rather than forbidden.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
