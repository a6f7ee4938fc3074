package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	checkoutsvc "github.com/Spart911/southclub-storefront/internal/checkout"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type stubCheckoutService struct {
	draft        *checkoutsvc.Draft
	confirmation *checkoutsvc.Confirmation
	deliveryErr  error
	gotContact   checkoutsvc.Contact
	gotDelivery  checkoutsvc.Delivery
}

func (s *stubCheckoutService) Draft(context.Context, string) (*checkoutsvc.Draft, error) {
	return s.draft, nil
}

func (s *stubCheckoutService) SubmitContact(_ context.Context, _ string, contact checkoutsvc.Contact) (*checkoutsvc.Draft, error) {
	s.gotContact = contact
	return s.draft, nil
}

func (s *stubCheckoutService) SubmitDelivery(_ context.Context, _ string, delivery checkoutsvc.Delivery) (*checkoutsvc.Confirmation, error) {
	s.gotDelivery = delivery
	if s.deliveryErr != nil {
		return nil, s.deliveryErr
	}
	return s.confirmation, nil
}

func (s *stubCheckoutService) Back(context.Context, string) (*checkoutsvc.Draft, error) {
	return s.draft, nil
}

func (s *stubCheckoutService) Abandon(context.Context, string, bool) error { return nil }

func (s *stubCheckoutService) Totals(context.Context, string) (*checkoutsvc.Totals, error) {
	return &checkoutsvc.Totals{}, nil
}

func (s *stubCheckoutService) DeliveryWindow(context.Context, string) (time.Time, time.Time, error) {
	return time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), nil
}

func TestSubmitContactRejectsBadPhone(t *testing.T) {
	svc := &stubCheckoutService{draft: &checkoutsvc.Draft{}}

	body := `{"full_name":"Ivan Petrov","email":"ivan@example.com","phone":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/contact", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(SubmitContact(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotContact.Phone != "" {
		t.Fatal("service must not be called on invalid phone")
	}
	if !strings.Contains(rec.Body.String(), "11 digits") {
		t.Fatalf("expected phone detail in response, got %s", rec.Body.String())
	}
}

func TestSubmitDeliveryConsentGateMapsTo428(t *testing.T) {
	svc := &stubCheckoutService{
		deliveryErr: pkgerrors.New(pkgerrors.CodeConsentRequired, "data processing consent is required before ordering"),
	}

	body := `{"street":"Lenina","house":"1","date":"2026-03-11","slot":"11:00-13:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/delivery", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(SubmitDelivery(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != string(pkgerrors.CodeConsentRequired) {
		t.Fatalf("expected consent_required code, got %q", resp.Error.Code)
	}
}

func TestSubmitDeliveryReturnsConfirmation(t *testing.T) {
	svc := &stubCheckoutService{
		confirmation: &checkoutsvc.Confirmation{
			OrderID:     "ord-1",
			OrderNumber: "7",
			PaymentURL:  "https://pay.example.com/ord-1",
		},
	}

	body := `{"street":"Lenina","house":"1","apartment":"12","date":"2026-03-11","slot":"11:00-13:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/delivery", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(SubmitDelivery(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotDelivery.Apartment != "12" {
		t.Fatalf("delivery payload not relayed: %+v", svc.gotDelivery)
	}
	if !strings.Contains(rec.Body.String(), "https://pay.example.com/ord-1") {
		t.Fatalf("expected payment url in response, got %s", rec.Body.String())
	}
}

func TestGetDeliveryWindowListsSlots(t *testing.T) {
	svc := &stubCheckoutService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/delivery-window", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(GetDeliveryWindow(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := rec.Body.String()
	for _, want := range []string{"2026-03-11", "2026-06-02", "11:00-13:00", "13:00-16:00", "17:00-20:00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in response, got %s", want, got)
		}
	}
}
