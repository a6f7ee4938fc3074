package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type contextKey string

const ctxSessionID contextKey = "session_id"

// SessionIDFromContext returns the storefront session id set by
// SessionContext, or "".
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// SessionContext resolves the storefront session: an explicit header
// wins, then the session cookie; a request carrying neither gets a
// fresh id minted and set as a cookie. Per-session state (cart,
// consent, admin token) hangs off this id.
func SessionContext(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(cfg.Header)
			if sessionID == "" {
				if cookie, err := r.Cookie(cfg.CookieName); err == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(cfg.CookieTTL),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
