package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Spart911/southclub-storefront/api/middleware"
	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/internal/events"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// EventSubscriber is the bus surface the event stream consumes.
type EventSubscriber interface {
	Subscribe(kind events.Kind) (<-chan events.Event, func())
}

// StreamEvents pushes change notifications to the storefront as
// server-sent events: cart and consent updates for the caller's
// session, checkout blocks, and order status changes. The stream ends
// when the client disconnects or the bus shuts down.
func StreamEvents(bus EventSubscriber, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())

		cartCh, cancelCart := bus.Subscribe(events.KindCartUpdated)
		defer cancelCart()
		consentCh, cancelConsent := bus.Subscribe(events.KindConsentChanged)
		defer cancelConsent()
		blockedCh, cancelBlocked := bus.Subscribe(events.KindCheckoutBlocked)
		defer cancelBlocked()
		statusCh, cancelStatus := bus.Subscribe(events.KindOrderStatus)
		defer cancelStatus()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		write := func(event events.Event) bool {
			if !forSession(event, sessionID) {
				return true
			}
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "failed to encode event payload", err)
				}
				return true
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload); err != nil {
				return false
			}
			flusher.Flush()
			return true
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-cartCh:
				if !open || !write(event) {
					return
				}
			case event, open := <-consentCh:
				if !open || !write(event) {
					return
				}
			case event, open := <-blockedCh:
				if !open || !write(event) {
					return
				}
			case event, open := <-statusCh:
				if !open || !write(event) {
					return
				}
			}
		}
	}
}

// forSession keeps session-scoped notifications private to their
// session. Order status events carry no session and pass through.
func forSession(event events.Event, sessionID string) bool {
	switch payload := event.Payload.(type) {
	case events.CartUpdated:
		return payload.SessionID == sessionID
	case events.ConsentChanged:
		return payload.SessionID == sessionID
	case events.CheckoutBlocked:
		return payload.SessionID == sessionID
	default:
		return true
	}
}
