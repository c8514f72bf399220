package core

import (
	"encoding/json"
	"time"

	"github.com/nikolaydubina/fpdecimal"
)

// Trade records one execution between a buy order and a sell order. Trades
// are immutable once created; the book keeps no reference to past trades.
type Trade struct {
	ID          string
	Instrument  string
	BuyOrderID  string
	SellOrderID string
	Price       fpdecimal.Decimal
	Quantity    int64
	Timestamp   time.Time
}

// MarshalJSON implements Marshaler interface
func (t *Trade) MarshalJSON() ([]byte, error) {
	customStruct := struct {
		ID          string    `json:"id"`
		Instrument  string    `json:"instrument"`
		BuyOrderID  string    `json:"buyOrderId"`
		SellOrderID string    `json:"sellOrderId"`
		Price       string    `json:"price"`
		Quantity    int64     `json:"quantity"`
		Timestamp   time.Time `json:"timestamp"`
	}{
		ID:          t.ID,
		Instrument:  t.Instrument,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price.String(),
		Quantity:    t.Quantity,
		Timestamp:   t.Timestamp,
	}
	return json.Marshal(customStruct)
}

// String implements fmt.Stringer interface
func (t *Trade) String() string {
	j, _ := t.MarshalJSON()
	return string(j)
}
