package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
)

var (
	// ErrUnsupportedInstrument is returned when an order or query references
	// a symbol the router was not configured with
	ErrUnsupportedInstrument = errors.New("unsupported instrument")

	// ErrUnknownOrderType is returned when an order's type is neither LIMIT
	// nor MARKET
	ErrUnknownOrderType = errors.New("unknown order type")

	// ErrNilOrder is returned when a nil order is submitted
	ErrNilOrder = errors.New("nil order")
)

// bookHandle pairs an order book with the lock that linearizes all access to
// it. Books for different instruments share no state and run in parallel.
type bookHandle struct {
	mu   sync.Mutex
	book *core.OrderBook
}

// BookRouter owns one order book per supported instrument and dispatches
// submit, cancel and query calls to the right book. The instrument set is
// fixed at construction.
type BookRouter struct {
	books       map[string]*bookHandle
	instruments []string
}

// NewBookRouter creates a router with one empty order book per instrument.
// Duplicate symbols are collapsed.
func NewBookRouter(instruments []string) *BookRouter {
	books := make(map[string]*bookHandle, len(instruments))
	names := make([]string, 0, len(instruments))
	for _, symbol := range instruments {
		if _, exists := books[symbol]; exists {
			continue
		}
		books[symbol] = &bookHandle{book: core.NewOrderBook(symbol)}
		names = append(names, symbol)
	}
	sort.Strings(names)

	return &BookRouter{books: books, instruments: names}
}

// Submit routes an order to its instrument's book and matches it. It returns
// the trades produced, ErrUnsupportedInstrument for an unconfigured symbol,
// or ErrUnknownOrderType for an order that is neither limit nor market.
func (r *BookRouter) Submit(ctx context.Context, order *core.Order) ([]*core.Trade, error) {
	if order == nil {
		return nil, ErrNilOrder
	}

	logger := logging.FromContext(ctx).With().
		Str("instrument", order.Instrument()).
		Str("order_id", order.ID()).
		Logger()

	handle, exists := r.books[order.Instrument()]
	if !exists {
		logger.Warn().Msg("Rejected order for unsupported instrument")
		return nil, ErrUnsupportedInstrument
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	var trades []*core.Trade
	switch {
	case order.IsLimitOrder():
		trades = handle.book.AddLimitOrder(order)
	case order.IsMarketOrder():
		trades = handle.book.ExecuteMarketOrder(order)
	default:
		logger.Warn().Str("order_type", string(order.OrderType())).Msg("Rejected order of unknown type")
		return nil, ErrUnknownOrderType
	}

	logger.Debug().
		Int("trades", len(trades)).
		Str("status", string(order.Status())).
		Msg("Processed order")
	return trades, nil
}

// Cancel removes a resting order from the given instrument's book. It
// returns false, not an error, when the instrument is unsupported or the
// order is not resting.
func (r *BookRouter) Cancel(ctx context.Context, instrument, orderID string) bool {
	logger := logging.FromContext(ctx).With().
		Str("instrument", instrument).
		Str("order_id", orderID).
		Logger()

	handle, exists := r.books[instrument]
	if !exists {
		logger.Debug().Msg("Cancel for unsupported instrument")
		return false
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	canceled := handle.book.Cancel(orderID)
	logger.Debug().Bool("canceled", canceled).Msg("Processed cancel")
	return canceled
}

// GetBook returns the order book for an instrument. Mutations must go
// through Submit and Cancel, which hold the instrument's lock.
func (r *BookRouter) GetBook(instrument string) (*core.OrderBook, error) {
	handle, exists := r.books[instrument]
	if !exists {
		return nil, ErrUnsupportedInstrument
	}
	return handle.book, nil
}

// ReadBook runs fn against the instrument's book while holding its lock,
// so reads are consistent with concurrent submits and cancels.
func (r *BookRouter) ReadBook(instrument string, fn func(*core.OrderBook)) error {
	handle, exists := r.books[instrument]
	if !exists {
		return ErrUnsupportedInstrument
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	fn(handle.book)
	return nil
}

// Instruments returns all configured symbols in sorted order.
func (r *BookRouter) Instruments() []string {
	out := make([]string, len(r.instruments))
	copy(out, r.instruments)
	return out
}
