package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/chitts/storefront-backend/pkg/db/models"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes profile reads and delivery address management.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateDeliveryAddress(ctx context.Context, userID uuid.UUID, address string) (*models.Profile, error)
	ClearDeliveryAddress(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type service struct {
	repo Repository
}

// NewService builds a profile service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return p, nil
}

func (s *service) UpdateDeliveryAddress(ctx context.Context, userID uuid.UUID, address string) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address cannot be empty")
	}
	if err := s.repo.UpdateDeliveryAddress(ctx, userID, &address); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery address")
	}
	return s.Get(ctx, userID)
}

func (s *service) ClearDeliveryAddress(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoUserSession, "user session required")
	}
	if err := s.repo.UpdateDeliveryAddress(ctx, userID, nil); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear delivery address")
	}
	return s.Get(ctx, userID)
}
