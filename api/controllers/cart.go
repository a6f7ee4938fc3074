package controllers

import (
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/api/validators"
	cartsvc "github.com/Spart911/southclub-storefront/internal/cart"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Size           string `json:"size" validate:"required"`
	Quantity       int    `json:"quantity" validate:"omitempty,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"required,min=0"`
	PhotoPath      string `json:"photo_path,omitempty" validate:"omitempty"`
}

type updateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type removeCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
}

type cartResponse struct {
	Items         []cartsvc.Item `json:"items"`
	TotalItems    int            `json:"total_items"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

func cartPayload(items []cartsvc.Item) cartResponse {
	totalItems := 0
	var subtotal int64
	for _, item := range items {
		totalItems += item.Quantity
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	if items == nil {
		items = []cartsvc.Item{}
	}
	return cartResponse{Items: items, TotalItems: totalItems, SubtotalCents: subtotal}
}

// GetCart returns the session cart.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		items, err := svc.Items(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(items))
	}
}

// AddCartItem adds or merges one line.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		cart, err := svc.Add(r.Context(), sessionID, cartsvc.Item{
			ProductID:      payload.ProductID,
			Name:           payload.Name,
			Size:           enums.SizeLabel(payload.Size),
			Quantity:       payload.Quantity,
			UnitPriceCents: payload.UnitPriceCents,
			PhotoPath:      payload.PhotoPath,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(cart.Items))
	}
}

// UpdateCartItem sets a line quantity.
func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		cart, err := svc.UpdateQuantity(r.Context(), sessionID, payload.ProductID, enums.SizeLabel(payload.Size), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(cart.Items))
	}
}

// RemoveCartItem deletes one line.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		cart, err := svc.Remove(r.Context(), sessionID, payload.ProductID, enums.SizeLabel(payload.Size))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(cart.Items))
	}
}

// ClearCart drops the session cart.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required"))
			return
		}
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartPayload(nil))
	}
}
