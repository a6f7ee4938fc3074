package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type memStore struct {
	values map[string]string
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) key(sessionID, key string) string {
	return sessionID + "/" + key
}

func (m *memStore) Get(_ context.Context, sessionID, key string, dest any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.values[m.key(sessionID, key)]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memStore) Set(_ context.Context, sessionID, key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[m.key(sessionID, key)] = string(raw)
	return nil
}

func (m *memStore) Delete(_ context.Context, sessionID, key string) error {
	delete(m.values, m.key(sessionID, key))
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (r *recordingBus) Publish(_ context.Context, kind events.Kind, payload any) {
	r.published = append(r.published, events.Event{Kind: kind, Payload: payload})
}

func newTestService(t *testing.T, store *memStore, bus *recordingBus) Service {
	t.Helper()
	svc, err := NewService(store, bus, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	store := newMemStore()
	bus := &recordingBus{}
	svc := newTestService(t, store, bus)
	ctx := context.Background()

	line := Item{ProductID: "p1", Name: "Tee", Size: enums.SizeM, Quantity: 1, UnitPriceCents: 1250}
	if _, err := svc.Add(ctx, "s1", line); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.Add(ctx, "s1", line)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected one merged line with qty 2, got %+v", cart.Items)
	}
	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.published))
	}
	last, ok := bus.published[1].Payload.(events.CartUpdated)
	if !ok || last.TotalItems != 2 {
		t.Fatalf("unexpected event payload %+v", bus.published[1].Payload)
	}
}

func TestAddKeepsSizesAsSeparateLines(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 1, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add M: %v", err)
	}
	cart, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeL, Quantity: 1, UnitPriceCents: 1000})
	if err != nil {
		t.Fatalf("add L: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two lines, got %+v", cart.Items)
	}
}

func TestAddRejectsUnknownSize(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})

	_, err := svc.Add(context.Background(), "s1", Item{ProductID: "p1", Size: "XXL", Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 3, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, quantity := range []int{0, -5} {
		cart, err := svc.UpdateQuantity(ctx, "s1", "p1", enums.SizeM, quantity)
		if err != nil {
			t.Fatalf("update quantity %d: %v", quantity, err)
		}
		if cart.Items[0].Quantity != 1 {
			t.Fatalf("expected quantity clamped to 1 for input %d, got %d", quantity, cart.Items[0].Quantity)
		}
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})

	_, err := svc.UpdateQuantity(context.Background(), "s1", "missing", enums.SizeM, 2)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveDeletesOnlyMatchingLine(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 1, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add M: %v", err)
	}
	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeL, Quantity: 1, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add L: %v", err)
	}

	cart, err := svc.Remove(ctx, "s1", "p1", enums.SizeM)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Size != enums.SizeL {
		t.Fatalf("expected only L line left, got %+v", cart.Items)
	}
}

func TestRemoveMissingLineIsNoOp(t *testing.T) {
	bus := &recordingBus{}
	svc := newTestService(t, newMemStore(), bus)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 1, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}
	published := len(bus.published)

	cart, err := svc.Remove(ctx, "s1", "missing-product", enums.SizeM)
	if err != nil {
		t.Fatalf("expected no error removing absent line, got %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected cart unchanged, got %+v", cart.Items)
	}
	if len(bus.published) != published {
		t.Fatalf("expected no event for an unchanged cart, got %d extra", len(bus.published)-published)
	}

	cart, err = svc.Remove(ctx, "s2", "p1", enums.SizeM)
	if err != nil {
		t.Fatalf("expected no error removing from empty cart, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func TestClearDropsStoredCart(t *testing.T) {
	store := newMemStore()
	bus := &recordingBus{}
	svc := newTestService(t, store, bus)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 2, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok := store.values["s1/cart"]; ok {
		t.Fatal("expected cart key removed")
	}
	count, err := svc.TotalItemCount(ctx, "s1")
	if err != nil || count != 0 {
		t.Fatalf("expected empty cart, got count=%d err=%v", count, err)
	}
}

func TestTotalsAcrossLines(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 2, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p2", Size: enums.SizeS, Quantity: 1, UnitPriceCents: 500}); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	count, err := svc.TotalItemCount(ctx, "s1")
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d err=%v", count, err)
	}
	subtotal, err := svc.SubtotalCents(ctx, "s1")
	if err != nil || subtotal != 2500 {
		t.Fatalf("expected subtotal 2500, got %d err=%v", subtotal, err)
	}
}

func TestCorruptedCartReadsAsEmpty(t *testing.T) {
	store := newMemStore()
	store.values["s1/cart"] = "{not json"
	svc := newTestService(t, store, &recordingBus{})

	items, err := svc.Items(context.Background(), "s1")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestService(t, newMemStore(), &recordingBus{})
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 1, UnitPriceCents: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := svc.Items(ctx, "s2")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected other session empty, got %+v", items)
	}
}

func TestPersistFailureSurfacesError(t *testing.T) {
	store := newMemStore()
	store.setErr = fmt.Errorf("disk full")
	svc := newTestService(t, store, &recordingBus{})

	_, err := svc.Add(context.Background(), "s1", Item{ProductID: "p1", Size: enums.SizeM, Quantity: 1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
