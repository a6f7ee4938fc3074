package controllers

import (
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/api/validators"
	adminsvc "github.com/Spart911/southclub-storefront/internal/admin"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin exchanges credentials for a stored bearer token.
func AdminLogin(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Login(r.Context(), sessionID, payload.Username, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"authenticated": true})
	}
}

// AdminLogout drops the stored token.
func AdminLogout(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"authenticated": false})
	}
}

// AdminSession reports whether a usable token is stored.
func AdminSession(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authenticated := svc.Authenticated(r.Context(), middleware.SessionIDFromContext(r.Context()))
		responses.WriteSuccess(w, map[string]any{"authenticated": authenticated})
	}
}

// AdminOrders lists all orders for the admin view.
func AdminOrders(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Orders(r.Context(), middleware.SessionIDFromContext(r.Context()), page, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminStatistics returns the aggregate order summary.
func AdminStatistics(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Statistics(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
