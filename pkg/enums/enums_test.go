package enums

import "testing"

func TestOrderStatusProgress(t *testing.T) {
	cases := map[OrderStatus]int{
		OrderStatusConfirmation: 25,
		OrderStatusBaked:        50,
		OrderStatusShipped:      75,
		OrderStatusDelivered:    100,
		OrderStatus("pending"):  0,
	}
	for status, want := range cases {
		if got := status.ProgressPercent(); got != want {
			t.Fatalf("%s: expected %d got %d", status, want, got)
		}
	}
}

func TestOrderStatusNextIsLinear(t *testing.T) {
	status := OrderStatusConfirmation
	var walked []OrderStatus
	for {
		walked = append(walked, status)
		next, ok := status.Next()
		if !ok {
			break
		}
		status = next
	}
	want := OrderStatuses()
	if len(walked) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), walked)
	}
	for i := range want {
		if walked[i] != want[i] {
			t.Fatalf("step %d: expected %s got %s", i, want[i], walked[i])
		}
	}
	if !OrderStatusDelivered.IsTerminal() {
		t.Fatal("delivered should be terminal")
	}
}

func TestParseOrderStatusRejectsSpacedForm(t *testing.T) {
	if _, err := ParseOrderStatus("order confirmation"); err == nil {
		t.Fatal("expected spaced status to be rejected")
	}
	if got, err := ParseOrderStatus("baked"); err != nil || got != OrderStatusBaked {
		t.Fatalf("unexpected parse result %q %v", got, err)
	}
}

func TestCategoryGranularity(t *testing.T) {
	fractional := 0
	for _, c := range validProductCategories {
		if c.Granularity() == QuantityGranularityFractionalQuarter {
			fractional++
			if c != ProductCategoryPastries {
				t.Fatalf("unexpected fractional category %s", c)
			}
		}
	}
	if fractional != 1 {
		t.Fatalf("expected exactly one fractional category, got %d", fractional)
	}
	if ProductCategory("unknown").Granularity() != QuantityGranularityInteger {
		t.Fatal("unknown categories must default to integer quantities")
	}
}

func TestProductStatusForStock(t *testing.T) {
	if ProductStatusForStock(0) != ProductStatusOutOfStock {
		t.Fatal("zero stock should be out of stock")
	}
	if ProductStatusForStock(3) != ProductStatusInStock {
		t.Fatal("positive stock should be in stock")
	}
}

func TestParsePaymentMethodDefaultsToCOD(t *testing.T) {
	got, err := ParsePaymentMethod("")
	if err != nil || got != PaymentMethodCOD {
		t.Fatalf("expected cod default, got %q %v", got, err)
	}
	if _, err := ParsePaymentMethod("barter"); err == nil {
		t.Fatal("expected unknown payment method to fail")
	}
}
