package orders

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"shipped", StatusShipped, true},
		{" Delivered ", StatusDelivered, true},
		{"cancelled", StatusCancelled, true},
		{"anulada", StatusCancelled, true},
		{"ENVIADO", StatusShipped, true},
		{"lost", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q): want=(%q,%v) got=(%q,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusDelivered.Valid() {
		t.Fatalf("expected DELIVERED to be valid")
	}
	if Status("ENVIADO").Valid() {
		t.Fatalf("aliases are input-only and must not be stored")
	}
	if Status("pending").Valid() {
		t.Fatalf("lowercase status must not be stored")
	}
}

func TestSumLines(t *testing.T) {
	lines := []OrderLine{
		{ItemID: 1, UnitPrice: decimal.RequireFromString("10.00"), Quantity: 3},
		{ItemID: 2, UnitPrice: decimal.RequireFromString("2.50"), Quantity: 4},
	}
	if got := SumLines(lines); !got.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("SumLines: want=40.00 got=%s", got)
	}
	if got := SumLines(nil); !got.IsZero() {
		t.Fatalf("SumLines(nil): got=%s", got)
	}
}
