package controllers

import (
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/api/validators"
	paymentsvc "github.com/Spart911/southclub-storefront/internal/payment"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type renderWidgetRequest struct {
	ConfirmationToken string `json:"confirmation_token" validate:"required"`
	ReturnURL         string `json:"return_url" validate:"omitempty,url"`
}

type widgetFailureRequest struct {
	Message string `json:"message" validate:"required"`
}

// GetWidgetState returns the widget lifecycle snapshot.
func GetWidgetState(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.State(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// LoadWidget loads the widget script for the session.
func LoadWidget(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.Load(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// RenderWidget hands the confirmation token to a ready widget.
func RenderWidget(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload renderWidgetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Render(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ConfirmationToken, payload.ReturnURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// ReportWidgetFailure records a provider-reported error.
func ReportWidgetFailure(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload widgetFailureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.ReportFailure(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// ResetWidget returns the lifecycle to not_loaded.
func ResetWidget(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Reset(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reset"})
	}
}
