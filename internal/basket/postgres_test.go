package basket

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDocumentMappingRoundTrip(t *testing.T) {
	t.Parallel()

	cart := NewCart("alice")
	cart.AddItem(mustItem(t, "p1", "Phone", "149.99", 2))
	cart.AddItem(mustItem(t, "p2", "Case", "10.50", 1))

	doc := documentFromCart(cart)
	if doc.UserID != "alice" {
		t.Fatalf("unexpected user id %q", doc.UserID)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 item rows, got %d", len(doc.Items))
	}

	restored := cartFromDocument(doc)
	if restored.UserID != cart.UserID {
		t.Fatalf("unexpected user id %q", restored.UserID)
	}
	if len(restored.Items) != len(cart.Items) {
		t.Fatalf("expected %d lines, got %d", len(cart.Items), len(restored.Items))
	}
	for i, item := range restored.Items {
		original := cart.Items[i]
		if item.ProductID != original.ProductID || item.Quantity != original.Quantity {
			t.Fatalf("line %d mismatch: %+v vs %+v", i, item, original)
		}
		if !item.UnitPrice.Equal(original.UnitPrice) {
			t.Fatalf("line %d price mismatch: %s vs %s", i, item.UnitPrice, original.UnitPrice)
		}
	}
	if !restored.TotalPrice().Equal(decimal.RequireFromString("310.48")) {
		t.Fatalf("unexpected total %s", restored.TotalPrice())
	}
}

func TestDocumentFromEmptyCart(t *testing.T) {
	t.Parallel()

	doc := documentFromCart(NewCart("bob"))
	if doc.Items == nil {
		t.Fatal("expected empty slice, not nil, for JSONB serialization")
	}
	restored := cartFromDocument(doc)
	if !restored.TotalPrice().IsZero() {
		t.Fatalf("expected zero total, got %s", restored.TotalPrice())
	}
}
