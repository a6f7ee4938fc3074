package checkout

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Spart911/southclub-storefront/pkg/enums"
	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

const dateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact is the first checkout stage: who is ordering.
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Delivery is the second checkout stage: where and when.
type Delivery struct {
	Street    string             `json:"street"`
	House     string             `json:"house"`
	Apartment string             `json:"apartment,omitempty"`
	Date      string             `json:"date"`
	Slot      enums.DeliverySlot `json:"slot"`
}

// Totals is the priced cart snapshot shown before payment. It is
// always recomputed from a fresh cart read, never stored.
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Draft is the transient per-session checkout state. It lives in
// memory only: abandoning the flow or submitting the order discards
// it, while the cart persists independently.
type Draft struct {
	Stage    enums.CheckoutStage `json:"stage"`
	Contact  Contact             `json:"contact"`
	Delivery Delivery            `json:"delivery"`
}

// Confirmation is the result of a successful order submission.
type Confirmation struct {
	OrderID           string `json:"order_id"`
	OrderNumber       string `json:"order_number"`
	ConfirmationToken string `json:"confirmation_token,omitempty"`
	PaymentURL        string `json:"payment_url,omitempty"`
	ReturnURL         string `json:"return_url"`
	Totals            Totals `json:"totals"`
}

// NormalizePhone strips everything but digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c Contact) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(c.FullName) == "" {
		details["full_name"] = "name is required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		details["email"] = "email must look like local@domain.tld"
	}
	if digits := NormalizePhone(c.Phone); len(digits) != 11 {
		details["phone"] = fmt.Sprintf("phone must contain exactly 11 digits, got %d", len(digits))
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact details are invalid").WithDetails(details)
	}
	return nil
}

// validate checks the address and slot fields and the date window
// [minDate, maxDate], comparing dates only.
func (d Delivery) validate(minDate, maxDate time.Time) error {
	details := map[string]string{}
	if strings.TrimSpace(d.Street) == "" {
		details["street"] = "street is required"
	}
	if strings.TrimSpace(d.House) == "" {
		details["house"] = "house number is required"
	}
	if !d.Slot.IsValid() {
		details["slot"] = "delivery time slot must be chosen"
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(d.Date), time.UTC)
	switch {
	case err != nil:
		details["date"] = "delivery date must use YYYY-MM-DD"
	case date.Before(minDate):
		details["date"] = fmt.Sprintf("earliest delivery date is %s", minDate.Format(dateLayout))
	case date.After(maxDate):
		details["date"] = fmt.Sprintf("latest delivery date is %s", maxDate.Format(dateLayout))
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery details are invalid").WithDetails(details)
	}
	return nil
}

// Address renders the single-line delivery address sent upstream.
func (d Delivery) Address() string {
	address := fmt.Sprintf("%s, %s", strings.TrimSpace(d.Street), strings.TrimSpace(d.House))
	if apt := strings.TrimSpace(d.Apartment); apt != "" {
		address += fmt.Sprintf(", apt. %s", apt)
	}
	return address
}

// TimeLabel renders the delivery timestamp sent upstream and echoed on
// the return URL.
func (d Delivery) TimeLabel() string {
	return fmt.Sprintf("%s %s", strings.TrimSpace(d.Date), d.Slot)
}
