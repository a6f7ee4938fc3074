package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spart911/southclub-storefront/pkg/backend"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type relay interface {
	SendFeedback(ctx context.Context, payload backend.FeedbackCreate) (*backend.FeedbackResult, error)
}

type consentGate interface {
	Require(ctx context.Context, sessionID string) error
}

// Submission is a contact-form message.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Service relays contact-form submissions upstream. Submissions carry
// personal data, so they pass the consent gate first.
type Service interface {
	Submit(ctx context.Context, sessionID string, submission Submission) (*backend.FeedbackResult, error)
}

type service struct {
	relay   relay
	consent consentGate
}

// NewService builds the feedback service.
func NewService(relay relay, consent consentGate) (Service, error) {
	if relay == nil {
		return nil, fmt.Errorf("feedback relay required")
	}
	if consent == nil {
		return nil, fmt.Errorf("consent gate required")
	}
	return &service{relay: relay, consent: consent}, nil
}

// Submit checks consent and relays the message.
func (s *service) Submit(ctx context.Context, sessionID string, submission Submission) (*backend.FeedbackResult, error) {
	if strings.TrimSpace(submission.Name) == "" || strings.TrimSpace(submission.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and message are required")
	}
	if err := s.consent.Require(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.relay.SendFeedback(ctx, backend.FeedbackCreate{
		Name:    submission.Name,
		Email:   submission.Email,
		Phone:   submission.Phone,
		Message: submission.Message,
	})
}
