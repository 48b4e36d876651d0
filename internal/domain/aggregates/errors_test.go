package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeNotFound, "Orders.Order.PlaceOrder", "customer not identified", nil)
	if got := err.Error(); got != "Orders.Order.PlaceOrder: customer not identified (not_found)" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := NewError(CodeInternal, "", "", nil).Error(); got != "internal" {
		t.Fatalf("unexpected bare message: %q", got)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NewError(CodeInsufficientStock, "op", "item 3", nil)
	wrapped := fmt.Errorf("handler: %w", base)
	if !IsCode(wrapped, CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock through wrap")
	}
	if CodeOf(wrapped) != CodeInsufficientStock {
		t.Fatalf("CodeOf: got=%q", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain error must have no code")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeRetryable, "op", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if Wrap(CodeRetryable, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}

func TestContractsAreAggregateOwned(t *testing.T) {
	for _, c := range []Contract{OrderAggregateContract, IdentityAggregateContract} {
		if !c.RequiresAggregateOwnedTx() {
			t.Fatalf("%s: expected aggregate-owned tx", c.Name)
		}
	}
}
