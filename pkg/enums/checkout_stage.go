package enums

import "fmt"

// CheckoutStage is one step of the linear checkout flow.
type CheckoutStage string

const (
	CheckoutStageContact  CheckoutStage = "contact"
	CheckoutStageDelivery CheckoutStage = "delivery"
	CheckoutStagePayment  CheckoutStage = "payment"
)

var checkoutStageSequence = []CheckoutStage{
	CheckoutStageContact,
	CheckoutStageDelivery,
	CheckoutStagePayment,
}

// String implements fmt.Stringer.
func (c CheckoutStage) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStage.
func (c CheckoutStage) IsValid() bool {
	return c.Rank() >= 0
}

// Rank returns the stage position in the flow, or -1 for unknown stages.
func (c CheckoutStage) Rank() int {
	for i, candidate := range checkoutStageSequence {
		if candidate == c {
			return i
		}
	}
	return -1
}

// ParseCheckoutStage converts raw input into a CheckoutStage.
func ParseCheckoutStage(value string) (CheckoutStage, error) {
	stage := CheckoutStage(value)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid checkout stage %q", value)
	}
	return stage, nil
}
