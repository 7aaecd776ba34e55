package controllers

import (
	"net/http"

	"github.com/chitts/storefront-backend/api/responses"
	"github.com/chitts/storefront-backend/api/validators"
	checkoutsvc "github.com/chitts/storefront-backend/internal/checkout"
	pkgerrors "github.com/chitts/storefront-backend/pkg/errors"
	"github.com/chitts/storefront-backend/pkg/logger"
)

type paymentSheetRequest struct {
	UseWallet *bool `json:"use_wallet"`
}

type executeCheckoutRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"omitempty,min=1,max=255"`
	UseWallet       *bool  `json:"use_wallet"`
}

// The wallet toggle defaults to on when the client omits it.
func walletEnabled(useWallet *bool) bool {
	return useWallet == nil || *useWallet
}

// CheckoutPaymentSheet prepares the gateway payment sheet for the current cart.
func CheckoutPaymentSheet(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req paymentSheetRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		sheet, err := svc.SetupPaymentSheet(r.Context(), userID, checkoutsvc.SheetInput{
			WalletEnabled: walletEnabled(req.UseWallet),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sheet)
	}
}

// CheckoutExecute places the order for the current cart.
func CheckoutExecute(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req executeCheckoutRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Execute(r.Context(), userID, checkoutsvc.ExecuteInput{
			PaymentIntentID: req.PaymentIntentID,
			WalletEnabled:   walletEnabled(req.UseWallet),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
