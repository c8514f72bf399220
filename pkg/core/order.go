package core

import (
	"encoding/json"
	"time"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// sideFromString parses the wire representation produced by String.
func sideFromString(s string) Side {
	if s == "BUY" {
		return Buy
	}
	return Sell
}

// OrderType represents type of the order
type OrderType string

// Order types
const (
	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"
)

// OrderStatus represents where an order is in its lifecycle
type OrderStatus string

// Order statuses. Filled, Canceled and Rejected are terminal.
const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
)

// Order stores information about an order. Fill state (filled quantity and
// status) is mutated only by the OrderBook during matching and cancellation.
type Order struct {
	id         string
	instrument string
	side       Side
	orderType  OrderType
	quantity   int64
	price      fpdecimal.Decimal
	filled     int64
	status     OrderStatus
	createdAt  time.Time
	accountID  string
}

// NewLimitOrder creates a new limit order at the given price. Quantity is not
// validated here: a non-positive quantity order is inert, it never trades and
// never rests.
func NewLimitOrder(orderID, instrument string, side Side, quantity int64, price fpdecimal.Decimal, accountID string) *Order {
	return &Order{
		id:         orderID,
		instrument: instrument,
		side:       side,
		orderType:  TypeLimit,
		quantity:   quantity,
		price:      price,
		status:     StatusNew,
		createdAt:  time.Now(),
		accountID:  accountID,
	}
}

// NewMarketOrder creates a new market order. Market orders carry no limit
// price and never rest on the book.
func NewMarketOrder(orderID, instrument string, side Side, quantity int64, accountID string) *Order {
	return &Order{
		id:         orderID,
		instrument: instrument,
		side:       side,
		orderType:  TypeMarket,
		quantity:   quantity,
		price:      fpdecimal.Zero,
		status:     StatusNew,
		createdAt:  time.Now(),
		accountID:  accountID,
	}
}

// ID returns the order identifier
func (o *Order) ID() string {
	return o.id
}

// Instrument returns the instrument symbol the order trades
func (o *Order) Instrument() string {
	return o.instrument
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// OrderType returns the type of the Order
func (o *Order) OrderType() OrderType {
	return o.orderType
}

// Quantity returns the original order quantity
func (o *Order) Quantity() int64 {
	return o.quantity
}

// FilledQuantity returns how much of the order has executed so far
func (o *Order) FilledQuantity() int64 {
	return o.filled
}

// Remaining returns the unfilled quantity
func (o *Order) Remaining() int64 {
	return o.quantity - o.filled
}

// Price returns the limit price. Zero for market orders.
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Status returns the current order status
func (o *Order) Status() OrderStatus {
	return o.status
}

// CreatedAt returns the order creation timestamp
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AccountID returns the owning account identifier
func (o *Order) AccountID() string {
	return o.accountID
}

// IsLimitOrder returns true if Order is LIMIT
func (o *Order) IsLimitOrder() bool {
	return o.orderType == TypeLimit
}

// IsMarketOrder returns true if Order is MARKET
func (o *Order) IsMarketOrder() bool {
	return o.orderType == TypeMarket
}

// IsComplete reports whether the order reached a terminal state. Terminal
// orders never transition again.
func (o *Order) IsComplete() bool {
	switch o.status {
	case StatusFilled, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

// fill records an execution of qty against this order and advances the
// status. Called by the OrderBook only, with 0 < qty <= Remaining().
func (o *Order) fill(qty int64) {
	o.filled += qty
	if o.Remaining() == 0 {
		o.status = StatusFilled
	} else if o.filled > 0 {
		o.status = StatusPartiallyFilled
	}
}

// setStatus sets the order status. Called by the OrderBook only.
func (o *Order) setStatus(status OrderStatus) {
	o.status = status
}

type orderJSON struct {
	ID         string      `json:"id"`
	Instrument string      `json:"instrument"`
	Side       string      `json:"side"`
	OrderType  OrderType   `json:"orderType"`
	Quantity   int64       `json:"quantity"`
	Price      string      `json:"price,omitempty"`
	Filled     int64       `json:"filled"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	AccountID  string      `json:"accountId,omitempty"`
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	j := orderJSON{
		ID:         o.id,
		Instrument: o.instrument,
		Side:       o.side.String(),
		OrderType:  o.orderType,
		Quantity:   o.quantity,
		Filled:     o.filled,
		Status:     o.status,
		CreatedAt:  o.createdAt,
		AccountID:  o.accountID,
	}
	if o.orderType == TypeLimit {
		j.Price = o.price.String()
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements custom JSON unmarshaling for Order
func (o *Order) UnmarshalJSON(data []byte) error {
	var j orderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	o.id = j.ID
	o.instrument = j.Instrument
	o.side = sideFromString(j.Side)
	o.orderType = j.OrderType
	o.quantity = j.Quantity
	o.filled = j.Filled
	o.status = j.Status
	o.createdAt = j.CreatedAt
	o.accountID = j.AccountID

	price, err := fpdecimal.FromString(j.Price)
	if err != nil {
		price = fpdecimal.Zero
	}
	o.price = price

	if o.status == "" {
		o.status = StatusNew
	}
	if o.createdAt.IsZero() {
		o.createdAt = time.Now()
	}

	return nil
}

// String implements fmt.Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
