package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	if !OrderStatusPending.CanTransitionTo(OrderStatusPaid) {
		t.Fatal("pending -> paid must be allowed")
	}
	if !OrderStatusPaid.CanTransitionTo(OrderStatusShipped) {
		t.Fatal("forward skips along the sequence must be allowed")
	}
	if OrderStatusShipped.CanTransitionTo(OrderStatusPaid) {
		t.Fatal("backward transitions must be rejected")
	}
	if !OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled) {
		t.Fatal("cancellation must be reachable from non-terminal statuses")
	}
	if OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled) {
		t.Fatal("terminal statuses must not transition")
	}
	if OrderStatusCancelled.CanTransitionTo(OrderStatusPending) {
		t.Fatal("cancelled is terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseOrderStatus("shipped")
	if err != nil || status != OrderStatusShipped {
		t.Fatalf("unexpected parse result: %v %v", status, err)
	}
	if _, err := ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestSizeLabelMapping(t *testing.T) {
	t.Parallel()

	label, err := SizeLabelFromIndex(2)
	if err != nil || label != SizeM {
		t.Fatalf("unexpected label for index 2: %v %v", label, err)
	}
	index, err := SizeIndex(SizeXL)
	if err != nil || index != 4 {
		t.Fatalf("unexpected index for XL: %d %v", index, err)
	}
	if _, err := SizeLabelFromIndex(9); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestParseDeliverySlot(t *testing.T) {
	t.Parallel()

	slot, err := ParseDeliverySlot("13:00-16:00")
	if err != nil || slot != DeliverySlotDay {
		t.Fatalf("unexpected slot: %v %v", slot, err)
	}
	if _, err := ParseDeliverySlot("09:00-11:00"); err == nil {
		t.Fatal("expected error for unknown slot")
	}
}
