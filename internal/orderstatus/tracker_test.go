package orderstatus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/pkg/backend"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

type fetchResult struct {
	status enums.OrderStatus
	err    error
}

func (s *scriptedFetcher) GetOrderStatus(_ context.Context, _ string) (*backend.OrderStatusInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.results[len(s.results)-1]
	if s.calls < len(s.results) {
		result = s.results[s.calls]
	}
	s.calls++
	if result.err != nil {
		return nil, result.err
	}
	return &backend.OrderStatusInfo{Status: result.status, UpdatedAt: time.Now()}, nil
}

func (s *scriptedFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type collectingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *collectingBus) Publish(_ context.Context, kind events.Kind, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events.Event{Kind: kind, Payload: payload})
}

func (c *collectingBus) statuses() []events.OrderStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.OrderStatus, 0, len(c.events))
	for _, event := range c.events {
		if payload, ok := event.Payload.(events.OrderStatus); ok {
			out = append(out, payload)
		}
	}
	return out
}

func newTestTracker(t *testing.T, fetcher *scriptedFetcher, bus *collectingBus, interval time.Duration) *Tracker {
	t.Helper()
	svc, err := NewService(fetcher)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tracker, err := NewTracker(TrackerParams{
		Service:  svc,
		Bus:      bus,
		Interval: interval,
	})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tracker
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestFetchValidatesOrderID(t *testing.T) {
	svc, err := NewService(&scriptedFetcher{results: []fetchResult{{status: enums.OrderStatusPending}}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Fetch(context.Background(), "  ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackerPublishesStatusChanges(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{status: enums.OrderStatusPending},
		{status: enums.OrderStatusPending},
		{status: enums.OrderStatusPaid},
	}}
	bus := &collectingBus{}
	tracker := newTestTracker(t, fetcher, bus, 10*time.Millisecond)
	defer tracker.Close()

	if err := tracker.Track(context.Background(), "o1"); err != nil {
		t.Fatalf("track: %v", err)
	}

	waitFor(t, time.Second, func() bool { return len(bus.statuses()) >= 2 })

	statuses := bus.statuses()
	if statuses[0].Current != enums.OrderStatusPending || statuses[0].Previous != "" {
		t.Fatalf("unexpected first event %+v", statuses[0])
	}
	if statuses[1].Previous != enums.OrderStatusPending || statuses[1].Current != enums.OrderStatusPaid {
		t.Fatalf("unexpected second event %+v", statuses[1])
	}
}

func TestTrackerSurvivesFailedTicks(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{status: enums.OrderStatusPending},
		{err: fmt.Errorf("network down")},
		{status: enums.OrderStatusPaid},
	}}
	bus := &collectingBus{}
	tracker := newTestTracker(t, fetcher, bus, 10*time.Millisecond)
	defer tracker.Close()

	if err := tracker.Track(context.Background(), "o1"); err != nil {
		t.Fatalf("track: %v", err)
	}

	// The failed second tick must not stop the third from running.
	waitFor(t, time.Second, func() bool { return fetcher.callCount() >= 3 })
	waitFor(t, time.Second, func() bool {
		statuses := bus.statuses()
		return len(statuses) >= 2 && statuses[len(statuses)-1].Current == enums.OrderStatusPaid
	})
}

func TestTrackerStopsOnTerminalStatus(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{status: enums.OrderStatusPending},
		{status: enums.OrderStatusDelivered},
	}}
	bus := &collectingBus{}
	tracker := newTestTracker(t, fetcher, bus, 10*time.Millisecond)
	defer tracker.Close()

	if err := tracker.Track(context.Background(), "o1"); err != nil {
		t.Fatalf("track: %v", err)
	}

	waitFor(t, time.Second, func() bool { return len(tracker.Tracked()) == 0 })

	calls := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	if fetcher.callCount() != calls {
		t.Fatal("polling continued after terminal status")
	}
}

func TestUntrackStopsPolling(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{status: enums.OrderStatusPending}}}
	bus := &collectingBus{}
	tracker := newTestTracker(t, fetcher, bus, 10*time.Millisecond)
	defer tracker.Close()

	if err := tracker.Track(context.Background(), "o1"); err != nil {
		t.Fatalf("track: %v", err)
	}
	waitFor(t, time.Second, func() bool { return fetcher.callCount() >= 1 })

	tracker.Untrack("o1")
	waitFor(t, time.Second, func() bool { return len(tracker.Tracked()) == 0 })

	calls := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	if fetcher.callCount() > calls+1 {
		t.Fatal("polling continued after untrack")
	}
}

func TestTrackIsIdempotent(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{status: enums.OrderStatusPending}}}
	tracker := newTestTracker(t, fetcher, &collectingBus{}, time.Minute)
	defer tracker.Close()

	ctx := context.Background()
	if err := tracker.Track(ctx, "o1"); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := tracker.Track(ctx, "o1"); err != nil {
		t.Fatalf("track again: %v", err)
	}
	if got := len(tracker.Tracked()); got != 1 {
		t.Fatalf("expected 1 tracked order, got %d", got)
	}
}
