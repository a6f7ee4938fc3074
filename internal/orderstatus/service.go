package orderstatus

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spart911/southclub-storefront/pkg/backend"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

type statusFetcher interface {
	GetOrderStatus(ctx context.Context, orderID string) (*backend.OrderStatusInfo, error)
}

// Service performs single order status fetches. Polling lives in
// Tracker; this is the one-shot read used directly by the API.
type Service interface {
	Fetch(ctx context.Context, orderID string) (*backend.OrderStatusInfo, error)
}

type service struct {
	fetcher statusFetcher
}

// NewService builds the status fetch service.
func NewService(fetcher statusFetcher) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("status fetcher required")
	}
	return &service{fetcher: fetcher}, nil
}

// Fetch reads the order status once. The result is advisory and
// read-only; failures surface to the caller with no retry here.
func (s *service) Fetch(ctx context.Context, orderID string) (*backend.OrderStatusInfo, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}
	return s.fetcher.GetOrderStatus(ctx, orderID)
}
