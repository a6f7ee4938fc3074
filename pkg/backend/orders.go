package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

// CreateOrder places a new order upstream and returns the created
// record, including the payment confirmation handle when the payment
// method requires one.
func (c *Client) CreateOrder(ctx context.Context, payload OrderCreate) (*Order, error) {
	if len(payload.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	var order Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders/", body: payload}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches a single order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}

	var order Order
	path := fmt.Sprintf("/orders/%s", url.PathEscape(trimmed))
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderStatus fetches the lightweight status snapshot for an order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (*OrderStatusInfo, error) {
	trimmed := strings.TrimSpace(orderID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order ID is required")
	}

	var status OrderStatusInfo
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(trimmed))
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListOrdersByEmail fetches all orders placed with the given email.
func (c *Client) ListOrdersByEmail(ctx context.Context, email string) (*OrderList, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var list OrderList
	path := fmt.Sprintf("/orders/email/%s", url.PathEscape(trimmed))
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListOrders fetches one page of all orders. Requires an admin token.
func (c *Client) ListOrders(ctx context.Context, token string, page, size int) (*OrderList, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var list OrderList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/", query: query, token: token}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// OrderStatisticsSummary fetches aggregate order counts and revenue.
// Requires an admin token.
func (c *Client) OrderStatisticsSummary(ctx context.Context, token string) (*OrderStatistics, error) {
	var stats OrderStatistics
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/statistics/summary", token: token}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
