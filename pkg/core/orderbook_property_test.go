package core

import (
	"fmt"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
	"pgregory.net/rapid"
)

type orderSpec struct {
	side   Side
	market bool
	qty    int64
	price  float64
	cancel string
}

func genOrderSpecs(t *rapid.T) []orderSpec {
	n := rapid.IntRange(1, 60).Draw(t, "n")
	specs := make([]orderSpec, n)
	for i := range specs {
		specs[i] = orderSpec{
			side:   Side(rapid.IntRange(0, 1).Draw(t, fmt.Sprintf("side%d", i))),
			market: rapid.IntRange(0, 9).Draw(t, fmt.Sprintf("mkt%d", i)) == 0,
			qty:    int64(rapid.IntRange(0, 50).Draw(t, fmt.Sprintf("qty%d", i))),
			price:  float64(rapid.IntRange(900, 1100).Draw(t, fmt.Sprintf("px%d", i))) / 100,
		}
		if rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("cxl%d", i)) == 0 && i > 0 {
			specs[i].cancel = fmt.Sprintf("o-%d", rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("cxlid%d", i)))
		}
	}
	return specs
}

func applySpecs(book *OrderBook, specs []orderSpec) (orders []*Order, trades []*Trade) {
	for i, s := range specs {
		if s.cancel != "" {
			book.Cancel(s.cancel)
			continue
		}
		id := fmt.Sprintf("o-%d", i)
		var order *Order
		if s.market {
			order = NewMarketOrder(id, book.Instrument(), s.side, s.qty, "")
			trades = append(trades, book.ExecuteMarketOrder(order)...)
		} else {
			order = NewLimitOrder(id, book.Instrument(), s.side, s.qty, fpdecimal.FromFloat(s.price), "")
			trades = append(trades, book.AddLimitOrder(order)...)
		}
		orders = append(orders, order)
	}
	return orders, trades
}

func TestPropertyNoOverfill(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := NewOrderBook("AAPL")
		orders, _ := applySpecs(book, genOrderSpecs(t))

		for _, o := range orders {
			if o.FilledQuantity() > o.Quantity() {
				t.Fatalf("order %s filled %d beyond quantity %d", o.ID(), o.FilledQuantity(), o.Quantity())
			}
			if o.Remaining() < 0 {
				t.Fatalf("order %s has negative remaining %d", o.ID(), o.Remaining())
			}
		}
	})
}

func TestPropertyNeverCrossed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := NewOrderBook("AAPL")
		specs := genOrderSpecs(t)

		// The book must be uncrossed after every operation, not just at the end.
		for i, s := range specs {
			if s.cancel != "" {
				book.Cancel(s.cancel)
			} else if s.market {
				book.ExecuteMarketOrder(NewMarketOrder(fmt.Sprintf("o-%d", i), "AAPL", s.side, s.qty, ""))
			} else {
				book.AddLimitOrder(NewLimitOrder(fmt.Sprintf("o-%d", i), "AAPL", s.side, s.qty, fpdecimal.FromFloat(s.price), ""))
			}
			bid, bidOK := book.BestBid()
			ask, askOK := book.BestAsk()
			if bidOK && askOK && !bid.LessThan(ask) {
				t.Fatalf("crossed book after op %d: bid=%s ask=%s", i, bid, ask)
			}
		}
	})
}

func TestPropertyVolumeConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := NewOrderBook("AAPL")
		orders, trades := applySpecs(book, genOrderSpecs(t))

		var buyFilled, sellFilled, traded int64
		for _, o := range orders {
			if o.Side() == Buy {
				buyFilled += o.FilledQuantity()
			} else {
				sellFilled += o.FilledQuantity()
			}
		}
		for _, tr := range trades {
			if tr.Quantity <= 0 {
				t.Fatalf("trade %s has non-positive quantity %d", tr.ID, tr.Quantity)
			}
			traded += tr.Quantity
		}

		if buyFilled != traded || sellFilled != traded {
			t.Fatalf("volume mismatch: buys filled %d, sells filled %d, traded %d", buyFilled, sellFilled, traded)
		}
	})
}

func TestPropertyDeterministicReplay(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		specs := genOrderSpecs(t)

		book1 := NewOrderBook("AAPL")
		_, trades1 := applySpecs(book1, specs)
		book2 := NewOrderBook("AAPL")
		_, trades2 := applySpecs(book2, specs)

		if len(trades1) != len(trades2) {
			t.Fatalf("replay produced %d trades, expected %d", len(trades2), len(trades1))
		}
		for i := range trades1 {
			a, b := trades1[i], trades2[i]
			if a.ID != b.ID || a.BuyOrderID != b.BuyOrderID || a.SellOrderID != b.SellOrderID ||
				a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
				t.Fatalf("trade %d differs on replay: %s vs %s", i, a, b)
			}
		}
		if book1.String() != book2.String() {
			t.Fatal("book depth differs on replay")
		}
	})
}

func TestPropertyTerminalOrdersNotResting(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := NewOrderBook("AAPL")
		orders, _ := applySpecs(book, genOrderSpecs(t))

		for _, o := range orders {
			if o.IsComplete() && book.Cancel(o.ID()) {
				t.Fatalf("terminal order %s (%s) was still resting", o.ID(), o.Status())
			}
		}
	})
}
