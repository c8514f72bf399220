package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
)

// snapshotDepth is how many aggregated price levels a market snapshot
// carries per side.
const snapshotDepth = 10

// MarketSnapshot is a point-in-time view of one instrument's book. Nil
// prices mean that side is empty; absence is distinct from zero.
type MarketSnapshot struct {
	Instrument string
	BestBid    *fpdecimal.Decimal
	BestAsk    *fpdecimal.Decimal
	Spread     *fpdecimal.Decimal
	Bids       []core.PriceLevel
	Asks       []core.PriceLevel
}

// MarshalJSON implements Marshaler interface
func (s *MarketSnapshot) MarshalJSON() ([]byte, error) {
	str := func(d *fpdecimal.Decimal) *string {
		if d == nil {
			return nil
		}
		v := d.String()
		return &v
	}
	type level struct {
		Price  string `json:"price"`
		Volume int64  `json:"volume"`
		Orders int    `json:"orders"`
	}
	levels := func(in []core.PriceLevel) []level {
		out := make([]level, len(in))
		for i, l := range in {
			out[i] = level{Price: l.Price.String(), Volume: l.Volume, Orders: l.Orders}
		}
		return out
	}
	return json.Marshal(struct {
		Instrument string  `json:"instrument"`
		BestBid    *string `json:"bestBid"`
		BestAsk    *string `json:"bestAsk"`
		Spread     *string `json:"spread"`
		Bids       []level `json:"bids"`
		Asks       []level `json:"asks"`
	}{
		Instrument: s.Instrument,
		BestBid:    str(s.BestBid),
		BestAsk:    str(s.BestAsk),
		Spread:     str(s.Spread),
		Bids:       levels(s.Bids),
		Asks:       levels(s.Asks),
	})
}

// MatchingEngine is the high-level entry point for order submission,
// cancellation and market data. It wraps a BookRouter with a registry
// mapping order IDs to instruments, so callers can cancel without tracking
// which book an order lives in.
type MatchingEngine struct {
	router *BookRouter

	mu       sync.RWMutex
	registry map[string]string // order_id -> instrument
}

// NewMatchingEngine creates an engine supporting the given instruments.
func NewMatchingEngine(instruments []string) *MatchingEngine {
	return &MatchingEngine{
		router:   NewBookRouter(instruments),
		registry: make(map[string]string),
	}
}

// Submit routes the order through the router and registers it for later
// cancellation. Orders that come back terminal (fully filled or rejected)
// need no future cancel and are not tracked.
func (e *MatchingEngine) Submit(ctx context.Context, order *core.Order) ([]*core.Trade, error) {
	trades, err := e.router.Submit(ctx, order)
	if err != nil {
		return nil, err
	}

	if !order.IsComplete() {
		e.mu.Lock()
		e.registry[order.ID()] = order.Instrument()
		e.mu.Unlock()
	}

	return trades, nil
}

// Cancel cancels an order by ID, auto-detecting its instrument from the
// registry. Unknown IDs return false without touching any book; a
// successful cancel removes the registry entry, so a second cancel of the
// same ID returns false.
func (e *MatchingEngine) Cancel(ctx context.Context, orderID string) bool {
	e.mu.RLock()
	instrument, tracked := e.registry[orderID]
	e.mu.RUnlock()
	if !tracked {
		return false
	}

	if !e.router.Cancel(ctx, instrument, orderID) {
		return false
	}

	e.mu.Lock()
	delete(e.registry, orderID)
	e.mu.Unlock()

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("instrument", instrument).
		Str("order_id", orderID).
		Msg("Canceled order")
	return true
}

// MarketSnapshot returns best bid, best ask, spread and top-of-book depth
// for one instrument.
func (e *MatchingEngine) MarketSnapshot(ctx context.Context, instrument string) (*MarketSnapshot, error) {
	snapshot := &MarketSnapshot{Instrument: instrument}
	err := e.router.ReadBook(instrument, func(book *core.OrderBook) {
		if bid, ok := book.BestBid(); ok {
			snapshot.BestBid = &bid
		}
		if ask, ok := book.BestAsk(); ok {
			snapshot.BestAsk = &ask
		}
		if spread, ok := book.Spread(); ok {
			snapshot.Spread = &spread
		}
		snapshot.Bids, snapshot.Asks = book.Depth(snapshotDepth)
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Instruments returns the supported symbols in sorted order.
func (e *MatchingEngine) Instruments() []string {
	return e.router.Instruments()
}
