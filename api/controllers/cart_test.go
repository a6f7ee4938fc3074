package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Spart911/southclub-storefront/api/middleware"
	cartsvc "github.com/Spart911/southclub-storefront/internal/cart"
	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type stubCartService struct {
	items      []cartsvc.Item
	itemsErr   error
	addedItem  cartsvc.Item
	sessionID  string
	clearCalls int
}

func (s *stubCartService) Items(_ context.Context, sessionID string) ([]cartsvc.Item, error) {
	s.sessionID = sessionID
	return s.items, s.itemsErr
}

func (s *stubCartService) Add(_ context.Context, sessionID string, item cartsvc.Item) (*cartsvc.Cart, error) {
	s.sessionID = sessionID
	s.addedItem = item
	s.items = append(s.items, item)
	return &cartsvc.Cart{Items: s.items}, nil
}

func (s *stubCartService) UpdateQuantity(_ context.Context, sessionID, productID string, size enums.SizeLabel, quantity int) (*cartsvc.Cart, error) {
	s.sessionID = sessionID
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].Size == size {
			s.items[i].Quantity = quantity
		}
	}
	return &cartsvc.Cart{Items: s.items}, nil
}

func (s *stubCartService) Remove(_ context.Context, sessionID, productID string, size enums.SizeLabel) (*cartsvc.Cart, error) {
	s.sessionID = sessionID
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID == productID && item.Size == size {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return &cartsvc.Cart{Items: s.items}, nil
}

func (s *stubCartService) Clear(_ context.Context, sessionID string) error {
	s.sessionID = sessionID
	s.clearCalls++
	s.items = nil
	return nil
}

func (s *stubCartService) TotalItemCount(_ context.Context, sessionID string) (int, error) {
	s.sessionID = sessionID
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total, nil
}

func (s *stubCartService) SubtotalCents(_ context.Context, sessionID string) (int64, error) {
	s.sessionID = sessionID
	var subtotal int64
	for _, item := range s.items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	return subtotal, nil
}

func sessionCfg() config.SessionConfig {
	return config.SessionConfig{Header: "X-Session-Id", CookieName: "sc_session"}
}

func withSession(handler http.HandlerFunc) http.Handler {
	return middleware.SessionContext(sessionCfg(), nil)(handler)
}

func TestGetCartUsesHeaderSession(t *testing.T) {
	svc := &stubCartService{items: []cartsvc.Item{
		{ProductID: "p1", Name: "Hoodie", Size: enums.SizeM, Quantity: 2, UnitPriceCents: 2500},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-42")
	rec := httptest.NewRecorder()

	withSession(GetCart(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.sessionID != "sess-42" {
		t.Fatalf("expected session from header, got %q", svc.sessionID)
	}

	var body struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.TotalItems != 2 {
		t.Fatalf("expected total_items 2, got %d", body.Data.TotalItems)
	}
	if body.Data.SubtotalCents != 5000 {
		t.Fatalf("expected subtotal 5000, got %d", body.Data.SubtotalCents)
	}
}

func TestGetCartMintsSessionCookie(t *testing.T) {
	svc := &stubCartService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	withSession(GetCart(svc, nil)).ServeHTTP(rec, req)

	if svc.sessionID == "" {
		t.Fatal("expected a minted session id")
	}
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "sc_session" && c.Value == svc.sessionID {
			found = true
			if !c.HttpOnly {
				t.Fatal("expected HttpOnly session cookie")
			}
		}
	}
	if !found {
		t.Fatalf("expected sc_session cookie carrying %q", svc.sessionID)
	}
}

func TestAddCartItemDecodesPayload(t *testing.T) {
	svc := &stubCartService{}

	body := `{"product_id":"p1","name":"Hoodie","size":"M","quantity":3,"unit_price_cents":2500}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(AddCartItem(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.addedItem.ProductID != "p1" || svc.addedItem.Size != enums.SizeM || svc.addedItem.Quantity != 3 {
		t.Fatalf("unexpected item passed to service: %+v", svc.addedItem)
	}
}

func TestAddCartItemRejectsMissingFields(t *testing.T) {
	svc := &stubCartService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"name":"Hoodie"}`))
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(AddCartItem(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %q", body.Error.Code)
	}
	if _, ok := body.Error.Details["product_id"]; !ok {
		t.Fatalf("expected product_id detail, got %v", body.Error.Details)
	}
	if svc.addedItem.ProductID != "" {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestClearCartEmptyResponse(t *testing.T) {
	svc := &stubCartService{items: []cartsvc.Item{{ProductID: "p1", Size: enums.SizeS, Quantity: 1}}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-1")
	rec := httptest.NewRecorder()

	withSession(ClearCart(svc, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", svc.clearCalls)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rec.Body.String())
	}
}
