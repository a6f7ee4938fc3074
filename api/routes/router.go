package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spart911/southclub-storefront/api/controllers"
	"github.com/Spart911/southclub-storefront/api/middleware"
	adminsvc "github.com/Spart911/southclub-storefront/internal/admin"
	cartsvc "github.com/Spart911/southclub-storefront/internal/cart"
	checkoutsvc "github.com/Spart911/southclub-storefront/internal/checkout"
	consentsvc "github.com/Spart911/southclub-storefront/internal/consent"
	feedbacksvc "github.com/Spart911/southclub-storefront/internal/feedback"
	"github.com/Spart911/southclub-storefront/internal/orderstatus"
	paymentsvc "github.com/Spart911/southclub-storefront/internal/payment"
	productsvc "github.com/Spart911/southclub-storefront/internal/products"
	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/logger"
	"github.com/Spart911/southclub-storefront/pkg/metrics"
)

// Params bundles everything the router wires together.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	BaseContext context.Context
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics

	Bus      controllers.EventSubscriber
	Cart     cartsvc.Service
	Consent  consentsvc.Service
	Checkout checkoutsvc.Service
	Payment  paymentsvc.Service
	Products productsvc.Service
	Orders   controllers.OrderReader
	Status   orderstatus.Service
	Tracker  *orderstatus.Tracker
	Feedback feedbacksvc.Service
	Admin    adminsvc.Service
}

// NewRouter assembles the storefront API.
func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger
	baseCtx := p.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionContext(cfg.Session, logg))

		r.Get("/events", controllers.StreamEvents(p.Bus, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(p.Cart, logg))
			r.Post("/items", controllers.AddCartItem(p.Cart, logg))
			r.Put("/items", controllers.UpdateCartItem(p.Cart, logg))
			r.Delete("/items", controllers.RemoveCartItem(p.Cart, logg))
			r.Delete("/", controllers.ClearCart(p.Cart, logg))
		})

		r.Route("/consent", func(r chi.Router) {
			r.Get("/", controllers.GetConsent(p.Consent, logg))
			r.Post("/accept", controllers.AcceptConsent(p.Consent, logg))
			r.Post("/decline", controllers.DeclineConsent(p.Consent, logg))
			r.Post("/prompt", controllers.RequestConsentPrompt(p.Consent, logg))
			r.Delete("/", controllers.RevokeConsent(p.Consent, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.GetCheckoutDraft(p.Checkout, logg))
			r.Post("/contact", controllers.SubmitContact(p.Checkout, logg))
			r.Post("/delivery", controllers.SubmitDelivery(p.Checkout, logg))
			r.Post("/back", controllers.CheckoutBack(p.Checkout, logg))
			r.Post("/abandon", controllers.AbandonCheckout(p.Checkout, logg))
			r.Get("/totals", controllers.GetCheckoutTotals(p.Checkout, logg))
			r.Get("/delivery-window", controllers.GetDeliveryWindow(p.Checkout, logg))
		})

		r.Route("/payment/widget", func(r chi.Router) {
			r.Get("/", controllers.GetWidgetState(p.Payment, logg))
			r.Post("/load", controllers.LoadWidget(p.Payment, logg))
			r.Post("/render", controllers.RenderWidget(p.Payment, logg))
			r.Post("/failure", controllers.ReportWidgetFailure(p.Payment, logg))
			r.Post("/reset", controllers.ResetWidget(p.Payment, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.Products, logg))
			r.Get("/{productID}", controllers.GetProduct(p.Products, logg))
			r.Get("/{productID}/photos", controllers.ListProductPhotos(p.Products, logg))
		})
		r.Get("/slider", controllers.ListSliderPhotos(p.Products, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrdersByEmail(p.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(p.Orders, logg))
			r.Get("/{orderID}/status", controllers.GetOrderStatus(p.Status, logg))
			r.Post("/{orderID}/track", controllers.TrackOrder(p.Tracker, baseCtx, logg))
			r.Delete("/{orderID}/track", controllers.UntrackOrder(p.Tracker, logg))
		})

		r.Post("/feedback", controllers.SubmitFeedback(p.Feedback, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(p.Admin, logg))
			r.Post("/logout", controllers.AdminLogout(p.Admin, logg))
			r.Get("/session", controllers.AdminSession(p.Admin, logg))
			r.Get("/orders", controllers.AdminOrders(p.Admin, logg))
			r.Get("/statistics", controllers.AdminStatistics(p.Admin, logg))
		})
	})

	return r
}
