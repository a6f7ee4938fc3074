package controllers

import (
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/api/validators"
	checkoutsvc "github.com/Spart911/southclub-storefront/internal/checkout"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type contactRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone11"`
}

type deliveryRequest struct {
	Street    string `json:"street" validate:"required"`
	House     string `json:"house" validate:"required"`
	Apartment string `json:"apartment" validate:"omitempty"`
	Date      string `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
}

type abandonRequest struct {
	Confirmed bool `json:"confirmed"`
}

type deliveryWindowResponse struct {
	MinDate string               `json:"min_date"`
	MaxDate string               `json:"max_date"`
	Slots   []enums.DeliverySlot `json:"slots"`
}

// GetCheckoutDraft returns the session's draft state.
func GetCheckoutDraft(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := svc.Draft(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// SubmitContact advances contact -> delivery.
func SubmitContact(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SubmitContact(r.Context(), middleware.SessionIDFromContext(r.Context()), checkoutsvc.Contact{
			FullName: payload.FullName,
			Email:    payload.Email,
			Phone:    payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// SubmitDelivery runs the delivery -> payment transition: validation,
// consent gate, order submission.
func SubmitDelivery(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload deliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.SubmitDelivery(r.Context(), middleware.SessionIDFromContext(r.Context()), checkoutsvc.Delivery{
			Street:    payload.Street,
			House:     payload.House,
			Apartment: payload.Apartment,
			Date:      payload.Date,
			Slot:      enums.DeliverySlot(payload.Slot),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// CheckoutBack returns to the previous stage.
func CheckoutBack(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, err := svc.Back(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// AbandonCheckout discards the draft behind a confirmation gate.
func AbandonCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload abandonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Abandon(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Confirmed); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "abandoned"})
	}
}

// GetCheckoutTotals returns totals recomputed from a fresh cart read.
func GetCheckoutTotals(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := svc.Totals(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// GetDeliveryWindow returns the selectable date range and slots.
func GetDeliveryWindow(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minDate, maxDate, err := svc.DeliveryWindow(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deliveryWindowResponse{
			MinDate: minDate.Format("2006-01-02"),
			MaxDate: maxDate.Format("2006-01-02"),
			Slots:   enums.DeliverySlots(),
		})
	}
}
