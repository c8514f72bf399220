package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolaydubina/fpdecimal"
)

// OrderBook is a single-instrument matching engine with price-time priority:
// better prices match first, and among equal prices earlier orders match
// first. Matching runs to completion inside each call, so the resting book is
// never crossed between calls.
//
// The book is not safe for concurrent use; callers serialize access per
// instrument.
type OrderBook struct {
	instrument string
	bids       *bookSide
	asks       *bookSide
	tradeSeq   int64
}

// NewOrderBook creates an empty order book for one instrument. Each book
// owns its own trade sequence, there is no process-wide state.
func NewOrderBook(instrument string) *OrderBook {
	return &OrderBook{
		instrument: instrument,
		bids:       newBookSide(Buy),
		asks:       newBookSide(Sell),
	}
}

// Instrument returns the symbol this book trades.
func (ob *OrderBook) Instrument() string {
	return ob.instrument
}

// AddLimitOrder matches a limit order against the opposite side and rests
// any remainder at its limit price. It returns the trades produced, in the
// order they were generated. The order must be a limit order for this
// book's instrument.
func (ob *OrderBook) AddLimitOrder(order *Order) []*Trade {
	if order == nil || !order.IsLimitOrder() || order.Instrument() != ob.instrument {
		return nil
	}

	var trades []*Trade
	if order.Side() == Buy {
		trades = ob.matchBuyOrder(order)
	} else {
		trades = ob.matchSellOrder(order)
	}

	// Rest the unmatched remainder. Inert zero-quantity orders and terminal
	// orders never enter the book.
	if !order.IsComplete() && order.Remaining() > 0 {
		if order.Side() == Buy {
			ob.bids.append(order)
		} else {
			ob.asks.append(order)
		}
	}

	return trades
}

// ExecuteMarketOrder matches a market order against the opposite side with
// no price constraint. Market orders never rest: whatever cannot be filled
// immediately is rejected, keeping any partial fills.
func (ob *OrderBook) ExecuteMarketOrder(order *Order) []*Trade {
	if order == nil || !order.IsMarketOrder() || order.Instrument() != ob.instrument {
		return nil
	}

	var trades []*Trade
	if order.Side() == Buy {
		trades = ob.matchBuyOrder(order)
	} else {
		trades = ob.matchSellOrder(order)
	}

	if order.Remaining() > 0 {
		order.setStatus(StatusRejected)
	}

	return trades
}

// matchBuyOrder matches a buy aggressor against the asks, consuming the
// lowest ask level first and draining each level in FIFO order.
func (ob *OrderBook) matchBuyOrder(buyOrder *Order) []*Trade {
	trades := make([]*Trade, 0)

	for buyOrder.Remaining() > 0 {
		askQueue, ok := ob.asks.best()
		if !ok {
			break
		}

		// Limit aggressors stop once the best ask no longer satisfies
		// their limit.
		if buyOrder.IsLimitOrder() && buyOrder.Price().LessThan(askQueue.price) {
			break
		}

		for buyOrder.Remaining() > 0 && askQueue.orders.Len() > 0 {
			sellOrder := askQueue.orders.Front().Value.(*Order)

			qty := buyOrder.Remaining()
			if sellOrder.Remaining() < qty {
				qty = sellOrder.Remaining()
			}

			// Execution is always at the resting order's price.
			trades = append(trades, ob.newTrade(buyOrder.ID(), sellOrder.ID(), askQueue.price, qty))

			buyOrder.fill(qty)
			sellOrder.fill(qty)

			if sellOrder.Remaining() == 0 {
				ob.asks.unlink(sellOrder.ID())
			}
		}
	}

	return trades
}

// matchSellOrder is the mirror of matchBuyOrder: a sell aggressor consumes
// the highest bid level first.
func (ob *OrderBook) matchSellOrder(sellOrder *Order) []*Trade {
	trades := make([]*Trade, 0)

	for sellOrder.Remaining() > 0 {
		bidQueue, ok := ob.bids.best()
		if !ok {
			break
		}

		if sellOrder.IsLimitOrder() && sellOrder.Price().GreaterThan(bidQueue.price) {
			break
		}

		for sellOrder.Remaining() > 0 && bidQueue.orders.Len() > 0 {
			buyOrder := bidQueue.orders.Front().Value.(*Order)

			qty := sellOrder.Remaining()
			if buyOrder.Remaining() < qty {
				qty = buyOrder.Remaining()
			}

			trades = append(trades, ob.newTrade(buyOrder.ID(), sellOrder.ID(), bidQueue.price, qty))

			sellOrder.fill(qty)
			buyOrder.fill(qty)

			if buyOrder.Remaining() == 0 {
				ob.bids.unlink(buyOrder.ID())
			}
		}
	}

	return trades
}

// newTrade builds the next trade record from this book's sequence.
func (ob *OrderBook) newTrade(buyOrderID, sellOrderID string, price fpdecimal.Decimal, qty int64) *Trade {
	trade := &Trade{
		ID:          fmt.Sprintf("T%d", ob.tradeSeq),
		Instrument:  ob.instrument,
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Price:       price,
		Quantity:    qty,
		Timestamp:   time.Now(),
	}
	ob.tradeSeq++
	return trade
}

// Cancel removes a resting order by ID and marks it CANCELED. It returns
// false if the order is not resting: already matched, already canceled, or
// never seen. A second cancel of the same ID always returns false.
func (ob *OrderBook) Cancel(orderID string) bool {
	order := ob.bids.unlink(orderID)
	if order == nil {
		order = ob.asks.unlink(orderID)
	}
	if order == nil {
		return false
	}
	order.setStatus(StatusCanceled)
	return true
}

// BestBid returns the highest resting bid price, if any.
func (ob *OrderBook) BestBid() (fpdecimal.Decimal, bool) {
	return ob.bids.bestPrice()
}

// BestAsk returns the lowest resting ask price, if any.
func (ob *OrderBook) BestAsk() (fpdecimal.Decimal, bool) {
	return ob.asks.bestPrice()
}

// Spread returns best ask minus best bid. The second result is false when
// either side is empty; absence is distinct from a zero spread.
func (ob *OrderBook) Spread() (fpdecimal.Decimal, bool) {
	bid, okBid := ob.bids.bestPrice()
	ask, okAsk := ob.asks.bestPrice()
	if !okBid || !okAsk {
		return fpdecimal.Zero, false
	}
	return ask.Sub(bid), true
}

// Depth returns up to n aggregated price levels per side, best first.
func (ob *OrderBook) Depth(n int) (bids, asks []PriceLevel) {
	return ob.bids.depth(n), ob.asks.depth(n)
}

// OrderCount returns the number of resting orders on the given side.
func (ob *OrderBook) OrderCount(side Side) int {
	if side == Buy {
		return ob.bids.orderCount()
	}
	return ob.asks.orderCount()
}

// String implements fmt.Stringer interface
func (ob *OrderBook) String() string {
	builder := strings.Builder{}

	builder.WriteString("Ask:")
	for _, level := range ob.asks.depth(16) {
		builder.WriteString(fmt.Sprintf("\n%s -> volume: %d orders: %d", level.Price, level.Volume, level.Orders))
	}
	builder.WriteString("\nBid:")
	for _, level := range ob.bids.depth(16) {
		builder.WriteString(fmt.Sprintf("\n%s -> volume: %d orders: %d", level.Price, level.Volume, level.Orders))
	}
	builder.WriteString("\n")

	return builder.String()
}
