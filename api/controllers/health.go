package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Spart911/southclub-storefront/api/responses"
	"github.com/Spart911/southclub-storefront/pkg/config"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// Pinger is anything health checks can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Southclub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the KV store and, when configured, Redis. Nil
// pingers are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Southclub-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		probe := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				ready = false
				return
			}
			checks[name] = "up"
		}
		probe("store", dbP)
		probe("redis", redisP)

		if !ready {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
