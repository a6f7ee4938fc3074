package controllers

import (
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/api/validators"
	feedbacksvc "github.com/Spart911/southclub-storefront/internal/feedback"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type feedbackRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone11"`
	Message string `json:"message" validate:"required,min=3"`
}

// SubmitFeedback relays a contact-form message through the consent gate.
func SubmitFeedback(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload feedbackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), middleware.SessionIDFromContext(r.Context()), feedbacksvc.Submission{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Message: payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
