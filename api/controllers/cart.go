package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chitts/storefront-backend/api/responses"
	"github.com/chitts/storefront-backend/api/validators"
	cartsvc "github.com/chitts/storefront-backend/internal/cart"
	productsvc "github.com/chitts/storefront-backend/internal/products"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Slug         string  `json:"slug" validate:"required,min=1,max=200"`
	UnitPrice    string  `json:"unit_price" validate:"required"`
	HeroImageRef *string `json:"hero_image_ref,omitempty" validate:"omitempty,max=500"`
	Quantity     int     `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// CartGet returns the caller's cart snapshot.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartAddItem adds a product to the cart, merging with an existing line. The
// submitted product id and unit price are checked against the catalog so a
// client cannot invent its own price.
func CartAddItem(svc cartsvc.Service, catalog productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		unitPrice, err := decimal.NewFromString(req.UnitPrice)
		if err != nil || unitPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be a non-negative decimal string"))
			return
		}
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}

		product, err := catalog.GetProductBySlug(r.Context(), req.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product.ID != productID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id does not match the catalog entry for this slug"))
			return
		}
		if !product.UnitPrice.Equal(unitPrice) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unit_price does not match the catalog price"))
			return
		}

		snap, err := svc.Add(r.Context(), userID, cartsvc.Item{
			ProductID:    productID,
			Title:        req.Title,
			Slug:         req.Slug,
			UnitPrice:    unitPrice,
			HeroImageRef: req.HeroImageRef,
			Quantity:     qty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func cartLineAction(svc cartsvc.Service, logg *logger.Logger,
	act func(svc cartsvc.Service, r *http.Request, userID, productID uuid.UUID) (cartsvc.Snapshot, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		snap, err := act(svc, r, userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartIncrementItem bumps a line's quantity by one.
func CartIncrementItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, func(svc cartsvc.Service, r *http.Request, userID, productID uuid.UUID) (cartsvc.Snapshot, error) {
		return svc.Increment(r.Context(), userID, productID)
	})
}

// CartDecrementItem drops a line's quantity by one, removing it at zero.
func CartDecrementItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, func(svc cartsvc.Service, r *http.Request, userID, productID uuid.UUID) (cartsvc.Snapshot, error) {
		return svc.Decrement(r.Context(), userID, productID)
	})
}

// CartRemoveItem deletes a line regardless of quantity.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, func(svc cartsvc.Service, r *http.Request, userID, productID uuid.UUID) (cartsvc.Snapshot, error) {
		return svc.Remove(r.Context(), userID, productID)
	})
}

// CartReset empties the cart.
func CartReset(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.Reset(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
