package basket

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/basket-service/api/responses"
	"github.com/angelmondragon/basket-service/api/validators"
	basketsvc "github.com/angelmondragon/basket-service/internal/basket"
	checkoutsvc "github.com/angelmondragon/basket-service/internal/checkout"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

// BasketFetch returns the basket for the user in the URL.
func BasketFetch(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		userID := chi.URLParam(r, "userID")
		cart, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBasketResponse(cart))
	}
}

// BasketUpsert replaces the user's basket with the submitted items.
func BasketUpsert(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		userID := chi.URLParam(r, "userID")

		var payload UpdateBasketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.UserID != "" && payload.UserID != userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id mismatch"))
			return
		}

		cart, err := svc.Update(r.Context(), userID, toItemInputs(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBasketResponse(cart))
	}
}

// BasketDelete removes the user's basket. Deleting an absent basket is fine.
func BasketDelete(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		userID := chi.URLParam(r, "userID")
		if err := svc.Delete(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// BasketCheckout publishes the checkout event and clears the basket. A
// missing basket is reported as a non-checkout, not an error.
func BasketCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload CheckoutBasketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), toCheckoutInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := CheckoutResponse{
			CheckedOut: result.CheckedOut,
			EventID:    result.EventID,
			Reason:     result.Reason,
		}
		if !result.CheckedOut {
			responses.WriteSuccessStatus(w, http.StatusUnprocessableEntity, resp)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, resp)
	}
}
