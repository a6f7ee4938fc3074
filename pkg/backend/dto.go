package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spart911/southclub-storefront/pkg/enums"
)

var centsPerUnit = decimal.NewFromInt(100)

// AmountFromCents converts a minor-unit amount into the decimal major
// units the upstream API exchanges.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsPerUnit)
}

// AmountToCents converts an upstream decimal amount into minor units,
// rounding to the nearest cent.
func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).Round(0).IntPart()
}

// ProductPhoto is one image attached to a product.
type ProductPhoto struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	FilePath  string `json:"file_path"`
	Priority  int    `json:"priority"`
}

// Product mirrors the upstream catalog record. Sizes are numeric
// indexes; enums.SizeLabelFromIndex maps them to labels.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Soon            bool            `json:"soon,omitempty"`
	Color           string          `json:"color,omitempty"`
	Composition     string          `json:"composition,omitempty"`
	PrintTechnology string          `json:"print_technology,omitempty"`
	Sizes           []int           `json:"size"`
	Price           decimal.Decimal `json:"price"`
	Photos          []ProductPhoto  `json:"photos"`
	OrderNumber     *int            `json:"order_number,omitempty"`
}

// PriceCents returns the product price in minor units.
func (p Product) PriceCents() int64 {
	return AmountToCents(p.Price)
}

// ProductList is one page of catalog results.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

// SliderPhoto is a storefront hero-slider image.
type SliderPhoto struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FilePath    string `json:"file_path"`
	OrderNumber int    `json:"order_number"`
}

// SliderList holds all slider photos.
type SliderList struct {
	Photos []SliderPhoto `json:"photos"`
	Total  int           `json:"total"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Size      int             `json:"size"`
	Price     decimal.Decimal `json:"price"`
}

// OrderCreate is the payload submitted when placing an order.
type OrderCreate struct {
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	DeliveryAddress string              `json:"delivery_address"`
	DeliveryTime    string              `json:"delivery_time,omitempty"`
	Items           []OrderItem         `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
}

// Order mirrors the upstream order record.
type Order struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"order_number"`
	CustomerName      string              `json:"customer_name"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerPhone     string              `json:"customer_phone"`
	DeliveryAddress   string              `json:"delivery_address"`
	Items             []OrderItem         `json:"items"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentURL        string              `json:"payment_url,omitempty"`
	PaymentID         string              `json:"payment_id,omitempty"`
	ConfirmationToken string              `json:"confirmation_token,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// TotalCents returns the order total in minor units.
func (o Order) TotalCents() int64 {
	return AmountToCents(o.TotalAmount)
}

// OrderStatusInfo is the lightweight status snapshot used for polling.
type OrderStatusInfo struct {
	Status    enums.OrderStatus `json:"status"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// OrderList is one page of orders.
type OrderList struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}

// OrderStatistics summarizes order counts and revenue for the admin view.
type OrderStatistics struct {
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PendingOrders    int             `json:"pending_orders"`
	PaidOrders       int             `json:"paid_orders"`
	ProcessingOrders int             `json:"processing_orders"`
	ShippedOrders    int             `json:"shipped_orders"`
	DeliveredOrders  int             `json:"delivered_orders"`
	CancelledOrders  int             `json:"cancelled_orders"`
}

// FeedbackCreate is a contact-form submission relayed upstream.
type FeedbackCreate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// FeedbackResult is the upstream acknowledgment for feedback submissions.
type FeedbackResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Token is the bearer credential returned by the admin login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
