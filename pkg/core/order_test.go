package core

import (
	"encoding/json"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestSideString(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"Buy", Buy, "BUY"},
		{"Sell", Sell, "SELL"},
		{"Invalid", Side(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.String(); got != tt.want {
				t.Errorf("Side.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLimitOrder(t *testing.T) {
	price := fpdecimal.FromFloat(150.25)
	order := NewLimitOrder("order-1", "AAPL", Buy, 10, price, "acct-1")

	if order.ID() != "order-1" {
		t.Errorf("Expected ID order-1, got %s", order.ID())
	}
	if order.Instrument() != "AAPL" {
		t.Errorf("Expected instrument AAPL, got %s", order.Instrument())
	}
	if order.Side() != Buy {
		t.Errorf("Expected Side Buy, got %v", order.Side())
	}
	if order.Quantity() != 10 {
		t.Errorf("Expected quantity 10, got %d", order.Quantity())
	}
	if !order.Price().Equal(price) {
		t.Errorf("Expected price %s, got %s", price, order.Price())
	}
	if order.Status() != StatusNew {
		t.Errorf("Expected status NEW, got %s", order.Status())
	}
	if order.AccountID() != "acct-1" {
		t.Errorf("Expected account acct-1, got %s", order.AccountID())
	}
	if !order.IsLimitOrder() {
		t.Error("Expected IsLimitOrder to be true")
	}
	if order.IsMarketOrder() {
		t.Error("Expected IsMarketOrder to be false")
	}
	if order.CreatedAt().IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestNewMarketOrder(t *testing.T) {
	order := NewMarketOrder("order-2", "MSFT", Sell, 25, "")

	if !order.IsMarketOrder() {
		t.Error("Expected IsMarketOrder to be true")
	}
	if order.IsLimitOrder() {
		t.Error("Expected IsLimitOrder to be false")
	}
	if !order.Price().Equal(fpdecimal.Zero) {
		t.Errorf("Expected zero price, got %s", order.Price())
	}
	if order.Remaining() != 25 {
		t.Errorf("Expected remaining 25, got %d", order.Remaining())
	}
}

func TestOrderFillTransitions(t *testing.T) {
	order := NewLimitOrder("order-1", "AAPL", Buy, 10, fpdecimal.FromFloat(100.0), "")

	order.fill(4)
	if order.Status() != StatusPartiallyFilled {
		t.Errorf("Expected PARTIALLY_FILLED after partial fill, got %s", order.Status())
	}
	if order.FilledQuantity() != 4 {
		t.Errorf("Expected filled 4, got %d", order.FilledQuantity())
	}
	if order.Remaining() != 6 {
		t.Errorf("Expected remaining 6, got %d", order.Remaining())
	}
	if order.IsComplete() {
		t.Error("Expected order not to be complete")
	}

	order.fill(6)
	if order.Status() != StatusFilled {
		t.Errorf("Expected FILLED after full fill, got %s", order.Status())
	}
	if !order.IsComplete() {
		t.Error("Expected order to be complete")
	}
}

func TestOrderJSONRoundTrip(t *testing.T) {
	order := NewLimitOrder("order-1", "AAPL", Sell, 7, fpdecimal.FromFloat(99.95), "acct-9")

	data, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Order
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.ID() != order.ID() {
		t.Errorf("Expected ID %s, got %s", order.ID(), decoded.ID())
	}
	if decoded.Side() != Sell {
		t.Errorf("Expected Side Sell, got %v", decoded.Side())
	}
	if decoded.Quantity() != 7 {
		t.Errorf("Expected quantity 7, got %d", decoded.Quantity())
	}
	if !decoded.Price().Equal(order.Price()) {
		t.Errorf("Expected price %s, got %s", order.Price(), decoded.Price())
	}
	if decoded.OrderType() != TypeLimit {
		t.Errorf("Expected LIMIT type, got %s", decoded.OrderType())
	}
	if decoded.AccountID() != "acct-9" {
		t.Errorf("Expected account acct-9, got %s", decoded.AccountID())
	}
}

func TestMarketOrderJSONOmitsPrice(t *testing.T) {
	order := NewMarketOrder("order-3", "AAPL", Buy, 5, "")

	data, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := raw["price"]; ok {
		t.Error("Expected market order JSON to omit price")
	}

	var decoded Order
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.IsMarketOrder() {
		t.Error("Expected decoded order to be a market order")
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	data := []byte(`{"id":"x","instrument":"AAPL","side":"BUY","orderType":"LIMIT","quantity":1,"price":"10.0"}`)

	var decoded Order
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Status() != StatusNew {
		t.Errorf("Expected missing status to default to NEW, got %s", decoded.Status())
	}
	if decoded.CreatedAt().IsZero() {
		t.Error("Expected missing createdAt to be filled in")
	}
}
