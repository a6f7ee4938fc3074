package enums

import "fmt"

// PaymentMethod is the payment option submitted with an order.
type PaymentMethod string

const (
	PaymentMethodYooKassa PaymentMethod = "yookassa"
	PaymentMethodCash     PaymentMethod = "cash"
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	return p == PaymentMethodYooKassa || p == PaymentMethodCash
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(value)
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
