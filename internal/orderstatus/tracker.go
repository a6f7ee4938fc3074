package orderstatus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	"github.com/Spart911/southclub-storefront/pkg/logger"
	"github.com/Spart911/southclub-storefront/pkg/metrics"
)

const defaultInterval = 30 * time.Second

type publisher interface {
	Publish(ctx context.Context, kind events.Kind, payload any)
}

// TrackerParams configure the polling tracker.
type TrackerParams struct {
	Service  Service
	Bus      publisher
	Logger   *logger.Logger
	Metrics  *metrics.PollerMetrics
	Interval time.Duration
}

// Tracker re-fetches tracked order statuses on a fixed cadence and
// publishes a bus event on every observed change. Each tick is
// independent: a failed fetch logs and waits for the next tick.
type Tracker struct {
	service  Service
	bus      publisher
	logg     *logger.Logger
	metrics  *metrics.PollerMetrics
	interval time.Duration

	mu      sync.Mutex
	tracked map[string]enums.OrderStatus
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewTracker builds a tracker.
func NewTracker(params TrackerParams) (*Tracker, error) {
	if params.Service == nil {
		return nil, fmt.Errorf("status service required")
	}
	if params.Bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Tracker{
		service:  params.Service,
		bus:      params.Bus,
		logg:     params.Logger,
		metrics:  params.Metrics,
		interval: interval,
		tracked:  make(map[string]enums.OrderStatus),
		cancels:  make(map[string]context.CancelFunc),
	}, nil
}

// Track starts polling the order. The first fetch fires immediately;
// tracking an already-tracked order is a no-op. Polling stops when
// Untrack is called, a terminal status is observed, or ctx is
// canceled.
func (t *Tracker) Track(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("order ID required")
	}

	t.mu.Lock()
	if _, ok := t.cancels[orderID]; ok {
		t.mu.Unlock()
		return nil
	}
	pollCtx, cancel := context.WithCancel(ctx)
	t.cancels[orderID] = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	go t.poll(pollCtx, orderID)
	return nil
}

// Untrack stops polling the order.
func (t *Tracker) Untrack(orderID string) {
	t.mu.Lock()
	cancel, ok := t.cancels[orderID]
	if ok {
		delete(t.cancels, orderID)
		delete(t.tracked, orderID)
	}
	t.mu.Unlock()
	if ok {
		cancel()
	}
}

// Tracked reports the order IDs currently being polled.
func (t *Tracker) Tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.cancels))
	for id := range t.cancels {
		ids = append(ids, id)
	}
	return ids
}

// Close stops all polling and waits for loops to exit.
func (t *Tracker) Close() {
	t.mu.Lock()
	for id, cancel := range t.cancels {
		cancel()
		delete(t.cancels, id)
		delete(t.tracked, id)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) poll(ctx context.Context, orderID string) {
	defer t.wg.Done()
	defer t.Untrack(orderID)

	t.tick(ctx, orderID)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal := t.tick(ctx, orderID); terminal {
				return
			}
		}
	}
}

// tick runs one fetch. Returns true once a terminal status is seen.
func (t *Tracker) tick(ctx context.Context, orderID string) bool {
	start := time.Now()
	info, err := t.service.Fetch(ctx, orderID)
	t.metrics.ObserveDuration("order_status", time.Since(start))
	if err != nil {
		t.metrics.IncFailure("order_status")
		if t.logg != nil && ctx.Err() == nil {
			t.logg.Warn(t.logg.WithOrderID(ctx, orderID), fmt.Sprintf("order status fetch failed: %v", err))
		}
		return false
	}
	t.metrics.IncSuccess("order_status")

	t.mu.Lock()
	previous, seen := t.tracked[orderID]
	t.tracked[orderID] = info.Status
	t.mu.Unlock()

	if !seen || previous != info.Status {
		t.bus.Publish(ctx, events.KindOrderStatus, events.OrderStatus{
			OrderID:   orderID,
			Previous:  previous,
			Current:   info.Status,
			UpdatedAt: info.UpdatedAt,
		})
	}

	return info.Status.IsTerminal()
}
