package discount

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/basket-service/pkg/config"
	pkgerrors "github.com/angelmondragon/basket-service/pkg/errors"
	"github.com/angelmondragon/basket-service/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(config.DiscountConfig{BaseURL: baseURL, Timeout: time.Second}, testLogger())
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	return client
}

func TestHTTPLookupDecodesCoupon(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/discount/Phone%20Case" && r.URL.Path != "/v1/discount/Phone Case" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"amount":"12.50","description":"clearance"}`)
	}))
	defer server.Close()

	coupon, err := newTestClient(t, server.URL).Lookup(context.Background(), "Phone Case")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !coupon.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("unexpected amount %s", coupon.Amount)
	}
	if coupon.Description != "clearance" {
		t.Fatalf("unexpected description %q", coupon.Description)
	}
}

func TestHTTPLookupNotFoundIsZeroCoupon(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	coupon, err := newTestClient(t, server.URL).Lookup(context.Background(), "Unknown")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !coupon.Amount.IsZero() {
		t.Fatalf("expected zero coupon, got %s", coupon.Amount)
	}
}

func TestHTTPLookupServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Lookup(context.Background(), "Phone")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDiscountLookup {
		t.Fatalf("expected discount lookup error, got %v", err)
	}
}

func TestStaticLookupMatchesCaseInsensitive(t *testing.T) {
	t.Parallel()

	lookup := NewStaticLookup(map[string]Coupon{
		"IPhone X": {Amount: decimal.RequireFromString("150.00"), Description: "launch promo"},
	})

	coupon, err := lookup.Lookup(context.Background(), "iphone x")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !coupon.Amount.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("unexpected amount %s", coupon.Amount)
	}

	coupon, err = lookup.Lookup(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !coupon.Amount.IsZero() {
		t.Fatalf("expected zero coupon for unknown product, got %s", coupon.Amount)
	}
}
