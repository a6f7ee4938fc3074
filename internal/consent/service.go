package consent

import (
	"context"
	"fmt"
	"sync"

	"github.com/Spart911/southclub-storefront/internal/events"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/kv"
)

// Record is the persisted consent decision. A record whose version no
// longer matches the configured schema version is treated as absent.
type Record struct {
	Granted bool   `json:"granted"`
	Version string `json:"version"`
}

// State is the consent snapshot exposed to callers.
type State struct {
	Granted    bool `json:"granted"`
	Decided    bool `json:"decided"`
	PromptOpen bool `json:"prompt_open"`
}

type publisher interface {
	Publish(ctx context.Context, kind events.Kind, payload any)
}

// Service is the data-processing consent gate. Any operation that
// submits personal data must pass Require first.
type Service interface {
	GetState(ctx context.Context, sessionID string) (*State, error)
	Accept(ctx context.Context, sessionID string) (*State, error)
	Decline(ctx context.Context, sessionID string) (*State, error)
	RequestPrompt(ctx context.Context, sessionID string) (*State, error)
	Revoke(ctx context.Context, sessionID string) error
	Require(ctx context.Context, sessionID string) error
}

type service struct {
	store   kv.Store
	bus     publisher
	version string

	mu      sync.Mutex
	prompts map[string]struct{}
}

// NewService builds the consent gate for the given schema version.
func NewService(store kv.Store, bus publisher, version string) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	if version == "" {
		return nil, fmt.Errorf("consent version required")
	}
	return &service{
		store:   store,
		bus:     bus,
		version: version,
		prompts: make(map[string]struct{}),
	}, nil
}

// load reads the stored record. Absent, unreadable and
// version-mismatched records all read as undecided.
func (s *service) load(ctx context.Context, sessionID string) (granted, decided bool, err error) {
	if sessionID == "" {
		return false, false, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	var record Record
	found, err := s.store.Get(ctx, sessionID, kv.KeyConsent, &record)
	if err != nil || !found {
		return false, false, nil
	}
	if record.Version != s.version {
		return false, false, nil
	}
	return record.Granted, true, nil
}

func (s *service) promptForced(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.prompts[sessionID]
	return ok
}

func (s *service) setPrompt(sessionID string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.prompts[sessionID] = struct{}{}
	} else {
		delete(s.prompts, sessionID)
	}
}

// GetState returns the consent snapshot. An undecided session reads
// with the prompt open.
func (s *service) GetState(ctx context.Context, sessionID string) (*State, error) {
	granted, decided, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &State{
		Granted:    granted,
		Decided:    decided,
		PromptOpen: !decided || s.promptForced(sessionID),
	}, nil
}

func (s *service) decide(ctx context.Context, sessionID string, granted bool) (*State, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	record := Record{Granted: granted, Version: s.version}
	if err := s.store.Set(ctx, sessionID, kv.KeyConsent, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist consent")
	}
	s.setPrompt(sessionID, false)

	s.bus.Publish(ctx, events.KindConsentChanged, events.ConsentChanged{
		SessionID: sessionID,
		Accepted:  granted,
		Version:   s.version,
	})

	return &State{Granted: granted, Decided: true, PromptOpen: false}, nil
}

// Accept persists a granted record at the current version and closes
// the prompt.
func (s *service) Accept(ctx context.Context, sessionID string) (*State, error) {
	return s.decide(ctx, sessionID, true)
}

// Decline persists a denied record at the current version and closes
// the prompt.
func (s *service) Decline(ctx context.Context, sessionID string) (*State, error) {
	return s.decide(ctx, sessionID, false)
}

// RequestPrompt forces the prompt open without touching the stored
// decision. Used when a gated action is attempted while undecided.
func (s *service) RequestPrompt(ctx context.Context, sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	s.setPrompt(sessionID, true)
	granted, decided, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &State{Granted: granted, Decided: decided, PromptOpen: true}, nil
}

// Revoke deletes the stored record, returning the session to the
// undecided state.
func (s *service) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if err := s.store.Delete(ctx, sessionID, kv.KeyConsent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke consent")
	}
	s.bus.Publish(ctx, events.KindConsentChanged, events.ConsentChanged{
		SessionID: sessionID,
		Accepted:  false,
		Version:   s.version,
	})
	return nil
}

// Require is the synchronous gate in front of data-submitting
// operations. It never touches the network; an undecided or declined
// session fails with a consent-required error and the prompt forced
// open.
func (s *service) Require(ctx context.Context, sessionID string) error {
	granted, decided, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if granted {
		return nil
	}
	s.setPrompt(sessionID, true)
	if !decided {
		return pkgerrors.New(pkgerrors.CodeConsentRequired, "data processing consent is required")
	}
	return pkgerrors.New(pkgerrors.CodeConsentRequired, "data processing consent was declined")
}
