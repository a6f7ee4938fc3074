package cart

import (
	"context"
	"fmt"

	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/kv"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

// Item is one cart line. Lines are keyed by product ID plus size
// label: the same product in two sizes is two lines.
type Item struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Size           enums.SizeLabel `json:"size"`
	Quantity       int             `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	PhotoPath      string          `json:"photo_path,omitempty"`
}

// Cart is the persisted session cart.
type Cart struct {
	Items []Item `json:"items"`
}

type publisher interface {
	Publish(ctx context.Context, kind events.Kind, payload any)
}

// Service exposes the per-session cart operations.
type Service interface {
	Items(ctx context.Context, sessionID string) ([]Item, error)
	Add(ctx context.Context, sessionID string, item Item) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, size enums.SizeLabel, quantity int) (*Cart, error)
	Remove(ctx context.Context, sessionID, productID string, size enums.SizeLabel) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	TotalItemCount(ctx context.Context, sessionID string) (int, error)
	SubtotalCents(ctx context.Context, sessionID string) (int64, error)
}

type service struct {
	store kv.Store
	bus   publisher
	logg  *logger.Logger
}

// NewService builds a cart service backed by the session KV store.
func NewService(store kv.Store, bus publisher, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	return &service{store: store, bus: bus, logg: logg}, nil
}

// load reads the cart, treating a missing or unreadable record as an
// empty cart so a corrupted row never wedges the session.
func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	var cart Cart
	found, err := s.store.Get(ctx, sessionID, kv.KeyCart, &cart)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), fmt.Sprintf("cart read failed, starting empty: %v", err))
		}
		return &Cart{Items: []Item{}}, nil
	}
	if !found || cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

func (s *service) persist(ctx context.Context, sessionID string, cart *Cart) error {
	if err := s.store.Set(ctx, sessionID, kv.KeyCart, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart")
	}
	s.bus.Publish(ctx, events.KindCartUpdated, events.CartUpdated{
		SessionID:  sessionID,
		TotalItems: cart.totalItems(),
	})
	return nil
}

func (c *Cart) totalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) subtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

func (c *Cart) findLine(productID string, size enums.SizeLabel) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}

// Items returns the current cart lines.
func (s *service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// Add appends a line, or increments the quantity of the existing line
// with the same product and size.
func (s *service) Add(ctx context.Context, sessionID string, item Item) (*Cart, error) {
	if item.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}
	if !item.Size.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown size %q", item.Size))
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := cart.findLine(item.ProductID, item.Size); i >= 0 {
		cart.Items[i].Quantity += item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line. Values below 1
// are clamped to 1; removal is always an explicit Remove call.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, size enums.SizeLabel, quantity int) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.findLine(productID, size)
	if i < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity < 1 {
		quantity = 1
	}
	cart.Items[i].Quantity = quantity

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes the line matching product and size. A line that is
// not present leaves the cart untouched.
func (s *service) Remove(ctx context.Context, sessionID, productID string, size enums.SizeLabel) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.findLine(productID, size)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear drops the stored cart entirely.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if err := s.store.Delete(ctx, sessionID, kv.KeyCart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	s.bus.Publish(ctx, events.KindCartUpdated, events.CartUpdated{SessionID: sessionID, TotalItems: 0})
	return nil
}

// TotalItemCount sums quantities across all lines.
func (s *service) TotalItemCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.totalItems(), nil
}

// SubtotalCents sums line price times quantity across all lines.
func (s *service) SubtotalCents(ctx context.Context, sessionID string) (int64, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.subtotalCents(), nil
}
