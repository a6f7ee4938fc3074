package enums

import "fmt"

// DeliverySlot is one of the fixed courier windows offered at checkout.
type DeliverySlot string

const (
	DeliverySlotMorning DeliverySlot = "11:00-13:00"
	DeliverySlotDay     DeliverySlot = "13:00-16:00"
	DeliverySlotEvening DeliverySlot = "17:00-20:00"
)

var deliverySlots = []DeliverySlot{
	DeliverySlotMorning,
	DeliverySlotDay,
	DeliverySlotEvening,
}

// DeliverySlots returns the selectable windows in display order.
func DeliverySlots() []DeliverySlot {
	slots := make([]DeliverySlot, len(deliverySlots))
	copy(slots, deliverySlots)
	return slots
}

// String implements fmt.Stringer.
func (d DeliverySlot) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySlot.
func (d DeliverySlot) IsValid() bool {
	for _, candidate := range deliverySlots {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliverySlot converts raw input into a DeliverySlot.
func ParseDeliverySlot(value string) (DeliverySlot, error) {
	for _, candidate := range deliverySlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery slot %q", value)
}
