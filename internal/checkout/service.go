package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Spart911/southclub-storefront/internal/cart"
	"github.com/Spart911/southclub-storefront/internal/events"
	"github.com/Spart911/southclub-storefront/pkg/backend"
	"github.com/Spart911/southclub-storefront/pkg/config"
	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
	"github.com/Spart911/southclub-storefront/pkg/logger"
)

type cartReader interface {
	Items(ctx context.Context, sessionID string) ([]cart.Item, error)
	Clear(ctx context.Context, sessionID string) error
}

type consentGate interface {
	Require(ctx context.Context, sessionID string) error
}

type orderCreator interface {
	CreateOrder(ctx context.Context, payload backend.OrderCreate) (*backend.Order, error)
}

type publisher interface {
	Publish(ctx context.Context, kind events.Kind, payload any)
}

// Service drives the three-stage checkout flow: contact, delivery,
// payment. Stages advance only through their validation gates; going
// back discards forward progress.
type Service interface {
	Draft(ctx context.Context, sessionID string) (*Draft, error)
	SubmitContact(ctx context.Context, sessionID string, contact Contact) (*Draft, error)
	SubmitDelivery(ctx context.Context, sessionID string, delivery Delivery) (*Confirmation, error)
	Back(ctx context.Context, sessionID string) (*Draft, error)
	Abandon(ctx context.Context, sessionID string, confirmed bool) error
	Totals(ctx context.Context, sessionID string) (*Totals, error)
	DeliveryWindow(ctx context.Context, sessionID string) (minDate, maxDate time.Time, err error)
}

type service struct {
	carts    cartReader
	consent  consentGate
	orders   orderCreator
	bus      publisher
	logg     *logger.Logger
	cfg      config.CheckoutConfig
	payment  config.PaymentConfig
	now      func() time.Time

	mu     sync.Mutex
	drafts map[string]*Draft
}

// NewService builds the checkout service.
func NewService(carts cartReader, consent consentGate, orders orderCreator, bus publisher, logg *logger.Logger, cfg config.CheckoutConfig, payment config.PaymentConfig) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if consent == nil {
		return nil, fmt.Errorf("consent gate required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	if payment.ReturnURL == "" {
		return nil, fmt.Errorf("payment return url required")
	}
	return &service{
		carts:   carts,
		consent: consent,
		orders:  orders,
		bus:     bus,
		logg:    logg,
		cfg:     cfg,
		payment: payment,
		now:     time.Now,
		drafts:  make(map[string]*Draft),
	}, nil
}

func (s *service) draftFor(sessionID string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draft, ok := s.drafts[sessionID]; ok {
		return draft
	}
	draft := &Draft{Stage: enums.CheckoutStageContact}
	s.drafts[sessionID] = draft
	return draft
}

func (s *service) dropDraft(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

// Draft returns the session's current draft, creating one at the
// contact stage on first use.
func (s *service) Draft(ctx context.Context, sessionID string) (*Draft, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	draft := s.draftFor(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *draft
	return &snapshot, nil
}

// SubmitContact validates the contact stage and advances to delivery.
func (s *service) SubmitContact(ctx context.Context, sessionID string, contact Contact) (*Draft, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if err := contact.validate(); err != nil {
		return nil, err
	}

	contact.Phone = NormalizePhone(contact.Phone)
	draft := s.draftFor(sessionID)

	s.mu.Lock()
	draft.Contact = contact
	draft.Stage = enums.CheckoutStageDelivery
	snapshot := *draft
	s.mu.Unlock()

	return &snapshot, nil
}

// deliveryWindow computes the selectable date range for the given cart
// quantity: lead time grows by one day per item beyond the first, and
// the far edge is a fixed number of months out.
func (s *service) deliveryWindow(totalQuantity int) (time.Time, time.Time) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	extraDays := totalQuantity - 1
	if extraDays < 0 {
		extraDays = 0
	}
	minDate := today.AddDate(0, 0, s.cfg.LeadTimeDays+extraDays)
	maxDate := today.AddDate(0, s.cfg.MaxAdvanceMonths, 0)
	return minDate, maxDate
}

// DeliveryWindow exposes the currently selectable delivery date range
// for the session's cart.
func (s *service) DeliveryWindow(ctx context.Context, sessionID string) (time.Time, time.Time, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	minDate, maxDate := s.deliveryWindow(totalQuantity(items))
	return minDate, maxDate, nil
}

func totalQuantity(items []cart.Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func (s *service) totalsFor(items []cart.Item) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: s.cfg.ShippingFeeCents,
		TotalCents:    subtotal + s.cfg.ShippingFeeCents,
	}
}

// Totals recomputes the priced snapshot from a fresh cart read.
func (s *service) Totals(ctx context.Context, sessionID string) (*Totals, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	totals := s.totalsFor(items)
	return &totals, nil
}

// SubmitDelivery validates the delivery stage and runs the payment
// transition: consent gate, fresh cart read, order submission, cart
// clear. A backend failure leaves the draft at the delivery stage so
// the user can retry; the cart is never cleared on failure.
func (s *service) SubmitDelivery(ctx context.Context, sessionID string, delivery Delivery) (*Confirmation, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}

	draft := s.draftFor(sessionID)
	s.mu.Lock()
	stage := draft.Stage
	contact := draft.Contact
	s.mu.Unlock()

	if stage.Rank() < enums.CheckoutStageDelivery.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "contact stage must be completed first")
	}

	// Totals and the date window are derived from a fresh cart read,
	// never from state captured before validation.
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	minDate, maxDate := s.deliveryWindow(totalQuantity(items))
	if err := delivery.validate(minDate, maxDate); err != nil {
		return nil, err
	}

	if err := s.consent.Require(ctx, sessionID); err != nil {
		s.bus.Publish(ctx, events.KindCheckoutBlocked, events.CheckoutBlocked{
			SessionID: sessionID,
			Stage:     enums.CheckoutStageDelivery,
			Reason:    "consent_required",
		})
		return nil, err
	}

	s.mu.Lock()
	draft.Delivery = delivery
	draft.Stage = enums.CheckoutStagePayment
	s.mu.Unlock()

	totals := s.totalsFor(items)
	payload, err := s.orderPayload(contact, delivery, items, totals)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, payload)
	if err != nil {
		// Recoverable: back to delivery, cart untouched.
		s.mu.Lock()
		draft.Stage = enums.CheckoutStageDelivery
		s.mu.Unlock()
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), fmt.Sprintf("cart clear after order submit failed: %v", err))
	}
	s.dropDraft(sessionID)

	return &Confirmation{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		ConfirmationToken: order.ConfirmationToken,
		PaymentURL:        order.PaymentURL,
		ReturnURL:         s.returnURL(order, delivery, totals),
		Totals:            totals,
	}, nil
}

func (s *service) orderPayload(contact Contact, delivery Delivery, items []cart.Item, totals Totals) (backend.OrderCreate, error) {
	lines := make([]backend.OrderItem, 0, len(items))
	for _, item := range items {
		sizeIndex, err := enums.SizeIndex(item.Size)
		if err != nil {
			return backend.OrderCreate{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map cart size")
		}
		lines = append(lines, backend.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      sizeIndex,
			Price:     backend.AmountFromCents(item.UnitPriceCents),
		})
	}
	return backend.OrderCreate{
		CustomerName:    contact.FullName,
		CustomerEmail:   contact.Email,
		CustomerPhone:   contact.Phone,
		DeliveryAddress: delivery.Address(),
		DeliveryTime:    delivery.TimeLabel(),
		Items:           lines,
		TotalAmount:     backend.AmountFromCents(totals.TotalCents),
		PaymentMethod:   enums.PaymentMethodYooKassa,
	}, nil
}

// returnURL is where the payment widget sends the browser afterwards.
// It carries what the success page needs to render without re-reading
// checkout state.
func (s *service) returnURL(order *backend.Order, delivery Delivery, totals Totals) string {
	query := url.Values{}
	query.Set("order_id", order.ID)
	query.Set("order_number", order.OrderNumber)
	query.Set("delivery_time", delivery.TimeLabel())
	query.Set("address", delivery.Address())
	query.Set("total_amount", strconv.FormatInt(totals.TotalCents, 10))
	return s.payment.ReturnURL + "?" + query.Encode()
}

// Back returns to the previous stage, discarding forward progress.
func (s *service) Back(ctx context.Context, sessionID string) (*Draft, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	draft := s.draftFor(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch draft.Stage {
	case enums.CheckoutStagePayment:
		draft.Stage = enums.CheckoutStageDelivery
		draft.Delivery = Delivery{}
	case enums.CheckoutStageDelivery:
		draft.Stage = enums.CheckoutStageContact
		draft.Delivery = Delivery{}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already at the first stage")
	}
	snapshot := *draft
	return &snapshot, nil
}

// Abandon discards the draft. The first unconfirmed call acts as the
// discard-changes gate; the cart persists independently.
func (s *service) Abandon(ctx context.Context, sessionID string, confirmed bool) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session ID is required")
	}
	if !confirmed {
		return pkgerrors.New(pkgerrors.CodeConflict, "abandoning checkout discards the draft; confirm to proceed")
	}

	s.mu.Lock()
	draft, ok := s.drafts[sessionID]
	var stage enums.CheckoutStage
	if ok {
		stage = draft.Stage
		delete(s.drafts, sessionID)
	}
	s.mu.Unlock()

	if ok {
		s.bus.Publish(ctx, events.KindCheckoutBlocked, events.CheckoutBlocked{
			SessionID: sessionID,
			Stage:     stage,
			Reason:    "abandoned",
		})
	}
	return nil
}
