package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/internal/orderstatus"
	"github.com/Spart911/southclub-storefront/pkg/backend"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// OrderReader is the subset of the commerce client the order views use.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*backend.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) (*backend.OrderList, error)
}

// GetOrder returns one order. The success page uses this to render
// final state from the return URL's order_id parameter.
func GetOrder(client OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := client.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GetOrderStatus performs a single advisory status fetch.
func GetOrderStatus(svc orderstatus.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Fetch(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// ListOrdersByEmail returns the orders placed with an email address.
func ListOrdersByEmail(client OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter is required"))
			return
		}

		list, err := client.ListOrdersByEmail(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TrackOrder starts background status polling for an order.
func TrackOrder(tracker *orderstatus.Tracker, baseCtx context.Context, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")
		// Polling outlives the request; tie it to the server context.
		if err := tracker.Track(baseCtx, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "track order"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "tracking", "order_id": orderID})
	}
}

// UntrackOrder stops background status polling for an order.
func UntrackOrder(tracker *orderstatus.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")
		tracker.Untrack(orderID)
		responses.WriteSuccess(w, map[string]string{"status": "untracked", "order_id": orderID})
	}
}
