package events

import (
	"context"
	"sync"
	"time"

	"github.com/Spart911/southclub-storefront/pkg/enums"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// Kind identifies one event stream on the bus.
type Kind string

const (
	KindCartUpdated     Kind = "cart.updated"
	KindConsentChanged  Kind = "consent.changed"
	KindCheckoutBlocked Kind = "checkout.blocked"
	KindOrderStatus     Kind = "order.status"
)

// CartUpdated is published after any cart mutation.
type CartUpdated struct {
	SessionID  string `json:"session_id"`
	TotalItems int    `json:"total_items"`
}

// ConsentChanged is published when a session grants or revokes consent.
type ConsentChanged struct {
	SessionID string `json:"session_id"`
	Accepted  bool   `json:"accepted"`
	Version   string `json:"version"`
}

// CheckoutBlocked is published when a checkout attempt is stopped
// before order creation, including an abandoned draft.
type CheckoutBlocked struct {
	SessionID string              `json:"session_id"`
	Stage     enums.CheckoutStage `json:"stage"`
	Reason    string              `json:"reason"`
}

// OrderStatus is published on every observed order status change.
type OrderStatus struct {
	OrderID   string            `json:"order_id"`
	Previous  enums.OrderStatus `json:"previous"`
	Current   enums.OrderStatus `json:"current"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Event is the envelope delivered to subscribers.
type Event struct {
	Kind    Kind
	Payload any
}

const defaultBuffer = 16

// Bus is a small in-process publish/subscribe fanout. Delivery is
// non-blocking: a subscriber that stops draining its channel drops
// events rather than stalling publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Kind][]chan Event
	logg   *logger.Logger
	buffer int
	closed bool
}

// NewBus builds an event bus. The logger may be nil.
func NewBus(logg *logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[Kind][]chan Event),
		logg:   logg,
		buffer: defaultBuffer,
	}
}

// Subscribe registers a listener for one event kind. The returned
// cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe(kind Kind) (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[kind] = append(b.subs[kind], ch)
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.closed {
				return
			}
			listeners := b.subs[kind]
			for i, listener := range listeners {
				if listener == ch {
					b.subs[kind] = append(listeners[:i], listeners[i+1:]...)
					// Closed under the write lock so no Publish
					// send can overlap the close.
					close(ch)
					break
				}
			}
		})
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber of its kind. Sends
// happen under the read lock; only non-blocking sends keep that safe.
func (b *Bus) Publish(ctx context.Context, kind Kind, payload any) {
	if b == nil {
		return
	}

	event := Event{Kind: kind, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[kind] {
		select {
		case ch <- event:
		default:
			if b.logg != nil {
				b.logg.Warn(b.logg.WithField(ctx, "event_kind", string(kind)), "event dropped: subscriber buffer full")
			}
		}
	}
}

// Close tears the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for kind, listeners := range b.subs {
		for _, ch := range listeners {
			close(ch)
		}
		delete(b.subs, kind)
	}
}
