package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/Spart911/southclub-storefront/api/controllers"
	"github.com/Spart911/southclub-storefront/api/routes"
	"github.com/Spart911/southclub-storefront/internal/admin"
	"github.com/Spart911/southclub-storefront/internal/cart"
	"github.com/Spart911/southclub-storefront/internal/checkout"
	"github.com/Spart911/southclub-storefront/internal/consent"
	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/internal/feedback"
	"github.com/Spart911/southclub-storefront/internal/orderstatus"
	"github.com/Spart911/southclub-storefront/internal/payment"
	"github.com/Spart911/southclub-storefront/internal/products"
	"github.com/Spart911/southclub-storefront/pkg/backend"
	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/db"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	"github.com/Spart911/southclub-storefront/pkg/kv"
	"github.com/Spart911/southclub-storefront/pkg/logger"
	"github.com/Spart911/southclub-storefront/pkg/metrics"
	"github.com/Spart911/southclub-storefront/pkg/migrate"
	"github.com/Spart911/southclub-storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.Store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap session store", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, catalog caching disabled")
	}

	store, err := kv.NewStore(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create session kv store", err)
		os.Exit(1)
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce api client", err)
		os.Exit(1)
	}

	bus := events.NewBus(logg)

	cartService, err := cart.NewService(store, bus, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	consentService, err := consent.NewService(store, bus, cfg.Consent.Version)
	if err != nil {
		logg.Error(context.Background(), "failed to create consent service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, consentService, client, bus, logg, cfg.Checkout, cfg.Payment)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	paymentService, err := payment.NewService(
		payment.NewHTTPScriptLoader(cfg.Backend.Timeout),
		cfg.Payment,
		func(sessionID, message string) {
			bus.Publish(context.Background(), events.KindCheckoutBlocked, events.CheckoutBlocked{
				SessionID: sessionID,
				Stage:     enums.CheckoutStagePayment,
				Reason:    message,
			})
		},
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment widget service", err)
		os.Exit(1)
	}

	statusService, err := orderstatus.NewService(client)
	if err != nil {
		logg.Error(context.Background(), "failed to create order status service", err)
		os.Exit(1)
	}

	registry := prometheus.DefaultRegisterer
	tracker, err := orderstatus.NewTracker(orderstatus.TrackerParams{
		Service:  statusService,
		Bus:      bus,
		Logger:   logg,
		Metrics:  metrics.NewPollerMetrics(registry),
		Interval: cfg.Poller.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order status tracker", err)
		os.Exit(1)
	}

	productsService, err := newProductsService(client, redisClient, logg, cfg.Catalog.CacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(client, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	feedbackService, err := feedback.NewService(client, consentService)
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	router := routes.NewRouter(routes.Params{
		Config:      cfg,
		Logger:      logg,
		BaseContext: runCtx,
		DBPinger:    dbClient,
		RedisPinger: redisPinger,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),

		Bus:      bus,
		Cart:     cartService,
		Consent:  consentService,
		Checkout: checkoutService,
		Payment:  paymentService,
		Products: productsService,
		Orders:   client,
		Status:   statusService,
		Tracker:  tracker,
		Feedback: feedbackService,
		Admin:    adminService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
	}

	tracker.Close()
	bus.Close()

	closeErr := dbClient.Close()
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "api server stopped")
}

func newProductsService(client *backend.Client, redisClient *redis.Client, logg *logger.Logger, ttl time.Duration) (products.Service, error) {
	if redisClient == nil {
		return products.NewService(client, nil, logg, ttl)
	}
	return products.NewService(client, redisClient, logg, ttl)
}
