package feedback

import (
	"context"
	"testing"

	"github.com/Spart911/southclub-storefront/pkg/backend"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type stubRelay struct {
	sent *backend.FeedbackCreate
}

func (s *stubRelay) SendFeedback(_ context.Context, payload backend.FeedbackCreate) (*backend.FeedbackResult, error) {
	s.sent = &payload
	return &backend.FeedbackResult{Success: true, Message: "ok"}, nil
}

type stubConsent struct {
	err error
}

func (s *stubConsent) Require(_ context.Context, _ string) error {
	return s.err
}

func TestSubmitRelaysAfterConsent(t *testing.T) {
	relay := &stubRelay{}
	svc, err := NewService(relay, &stubConsent{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Submit(context.Background(), "s1", Submission{
		Name:    "Ivan",
		Email:   "ivan@example.com",
		Message: "Where is my order?",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Success || relay.sent == nil || relay.sent.Name != "Ivan" {
		t.Fatalf("unexpected result %+v sent %+v", result, relay.sent)
	}
}

func TestSubmitBlockedWithoutConsent(t *testing.T) {
	relay := &stubRelay{}
	gate := &stubConsent{err: pkgerrors.New(pkgerrors.CodeConsentRequired, "data processing consent is required")}
	svc, err := NewService(relay, gate)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Submit(context.Background(), "s1", Submission{Name: "Ivan", Message: "hi"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConsentRequired {
		t.Fatalf("expected consent required, got %v", err)
	}
	if relay.sent != nil {
		t.Fatal("message must not be relayed without consent")
	}
}

func TestSubmitValidatesFields(t *testing.T) {
	svc, err := NewService(&stubRelay{}, &stubConsent{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Submit(context.Background(), "s1", Submission{Name: " ", Message: ""})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
