package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// ScriptLoader fetches and initializes the hosted payment widget
// script. The real implementation touches the provider's CDN; tests
// inject their own.
type ScriptLoader interface {
	Load(ctx context.Context, widgetURL string) error
}

// ErrorCallback is the single failure path for provider-reported
// errors. The flow never recovers payment state itself; the user
// restarts payment.
type ErrorCallback func(sessionID, message string)

// Session is one widget lifecycle:
// not_loaded -> loading -> ready -> rendering, with failed reachable
// from loading and rendering. All timing races funnel through these
// transitions.
type Session struct {
	State             enums.WidgetState `json:"state"`
	ConfirmationToken string            `json:"confirmation_token,omitempty"`
	ReturnURL         string            `json:"return_url,omitempty"`
	FailureMessage    string            `json:"failure_message,omitempty"`
}

// Service tracks widget lifecycles per storefront session.
type Service interface {
	State(ctx context.Context, sessionID string) (*Session, error)
	Load(ctx context.Context, sessionID string) (*Session, error)
	Render(ctx context.Context, sessionID, confirmationToken, returnURL string) (*Session, error)
	ReportFailure(ctx context.Context, sessionID, message string) (*Session, error)
	Reset(ctx context.Context, sessionID string) error
}

type service struct {
	loader  ScriptLoader
	onError ErrorCallback
	logg    *logger.Logger
	cfg     config.PaymentConfig

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService builds the widget lifecycle tracker. onError may be nil.
func NewService(loader ScriptLoader, cfg config.PaymentConfig, onError ErrorCallback, logg *logger.Logger) (Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("script loader required")
	}
	if cfg.WidgetURL == "" {
		return nil, fmt.Errorf("widget url required")
	}
	return &service{
		loader:   loader,
		onError:  onError,
		logg:     logg,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}, nil
}

func (s *service) sessionFor(sessionID string) *Session {
	if session, ok := s.sessions[sessionID]; ok {
		return session
	}
	session := &Session{State: enums.WidgetStateNotLoaded}
	s.sessions[sessionID] = session
	return session
}

// State returns the current lifecycle snapshot.
func (s *service) State(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *s.sessionFor(sessionID)
	return &snapshot, nil
}

// Load moves not_loaded -> loading -> ready. A session already ready
// or rendering returns as-is, so "script already loaded" and "not
// loaded yet" share one code path. A failed session must Reset first.
func (s *service) Load(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	s.mu.Lock()
	session := s.sessionFor(sessionID)
	switch session.State {
	case enums.WidgetStateReady, enums.WidgetStateRendering:
		snapshot := *session
		s.mu.Unlock()
		return &snapshot, nil
	case enums.WidgetStateLoading:
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "widget script is already loading")
	case enums.WidgetStateFailed:
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "widget failed; reset before retrying")
	}
	session.State = enums.WidgetStateLoading
	s.mu.Unlock()

	if err := s.loader.Load(ctx, s.cfg.WidgetURL); err != nil {
		s.fail(ctx, sessionID, fmt.Sprintf("widget script load failed: %v", err))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment widget script")
	}

	s.mu.Lock()
	session.State = enums.WidgetStateReady
	snapshot := *session
	s.mu.Unlock()
	return &snapshot, nil
}

// Render hands the confirmation token to a ready widget.
func (s *service) Render(ctx context.Context, sessionID, confirmationToken, returnURL string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if confirmationToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessionFor(sessionID)
	if session.State != enums.WidgetStateReady {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("widget is %s, expected ready", session.State))
	}
	session.State = enums.WidgetStateRendering
	session.ConfirmationToken = confirmationToken
	session.ReturnURL = returnURL
	snapshot := *session
	return &snapshot, nil
}

// ReportFailure records a provider-reported error. Surfaced to the
// user generically; the widget must be reset to try again.
func (s *service) ReportFailure(ctx context.Context, sessionID, message string) (*Session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	s.fail(ctx, sessionID, message)

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *s.sessionFor(sessionID)
	return &snapshot, nil
}

func (s *service) fail(ctx context.Context, sessionID, message string) {
	s.mu.Lock()
	session := s.sessionFor(sessionID)
	session.State = enums.WidgetStateFailed
	session.FailureMessage = message
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), fmt.Sprintf("payment widget failed: %s", message))
	}
	if s.onError != nil {
		s.onError(sessionID, message)
	}
}

// Reset returns the session to not_loaded so payment can restart.
func (s *service) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
