package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Spart911/southclub-storefront/pkg/backend"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/kv"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type adminClient interface {
	AdminLogin(ctx context.Context, username, password string) (*backend.Token, error)
	ListOrders(ctx context.Context, token string, page, size int) (*backend.OrderList, error)
	OrderStatisticsSummary(ctx context.Context, token string) (*backend.OrderStatistics, error)
}

// storedToken is the admin credential kept in the session KV store.
type storedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Service manages the admin session: login through the upstream API,
// the bearer token in session storage, and the admin-only reads.
type Service interface {
	Login(ctx context.Context, sessionID, username, password string) error
	Logout(ctx context.Context, sessionID string) error
	Authenticated(ctx context.Context, sessionID string) bool
	Orders(ctx context.Context, sessionID string, page, size int) (*backend.OrderList, error)
	Statistics(ctx context.Context, sessionID string) (*backend.OrderStatistics, error)
}

type service struct {
	client adminClient
	store  kv.Store
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the admin session service.
func NewService(client adminClient, store kv.Store, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("admin client required")
	}
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &service{client: client, store: store, logg: logg, now: time.Now}, nil
}

// Login exchanges credentials upstream and stores the bearer token for
// the session.
func (s *service) Login(ctx context.Context, sessionID, username, password string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	token, err := s.client.AdminLogin(ctx, username, password)
	if err != nil {
		return err
	}

	stored := storedToken{AccessToken: token.AccessToken}
	if expiry := tokenExpiry(token); !expiry.IsZero() {
		stored.ExpiresAt = expiry
	}
	if err := s.store.Set(ctx, sessionID, kv.KeyAdminToken, stored); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist admin token")
	}
	return nil
}

// tokenExpiry derives the token deadline, preferring the exp claim
// embedded in the JWT over the advertised expires_in. The signature is
// deliberately not verified: the upstream API is the authority, this
// check only avoids sending requests that are guaranteed to fail.
func tokenExpiry(token *backend.Token) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if token.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// Logout drops the stored token.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if err := s.store.Delete(ctx, sessionID, kv.KeyAdminToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop admin token")
	}
	return nil
}

// token returns the stored credential, dropping it when expired.
func (s *service) token(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	var stored storedToken
	found, err := s.store.Get(ctx, sessionID, kv.KeyAdminToken, &stored)
	if err != nil || !found || stored.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "admin login required")
	}
	if !stored.ExpiresAt.IsZero() && !s.now().Before(stored.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionID, kv.KeyAdminToken)
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session expired")
	}
	return stored.AccessToken, nil
}

// Authenticated reports whether a usable token is stored.
func (s *service) Authenticated(ctx context.Context, sessionID string) bool {
	_, err := s.token(ctx, sessionID)
	return err == nil
}

// unauthorizedHandled clears the stored token when the upstream
// rejects it, so the next call prompts a fresh login.
func (s *service) unauthorizedHandled(ctx context.Context, sessionID string, err error) error {
	appErr := pkgerrors.As(err)
	if appErr != nil && appErr.Code() == pkgerrors.CodeUnauthorized {
		if delErr := s.store.Delete(ctx, sessionID, kv.KeyAdminToken); delErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), fmt.Sprintf("drop rejected admin token failed: %v", delErr))
		}
	}
	return err
}

// Orders lists all orders for the admin view.
func (s *service) Orders(ctx context.Context, sessionID string, page, size int) (*backend.OrderList, error) {
	token, err := s.token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	list, err := s.client.ListOrders(ctx, token, page, size)
	if err != nil {
		return nil, s.unauthorizedHandled(ctx, sessionID, err)
	}
	return list, nil
}

// Statistics returns the aggregate order summary.
func (s *service) Statistics(ctx context.Context, sessionID string) (*backend.OrderStatistics, error) {
	token, err := s.token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stats, err := s.client.OrderStatisticsSummary(ctx, token)
	if err != nil {
		return nil, s.unauthorizedHandled(ctx, sessionID, err)
	}
	return stats, nil
}
