package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/engine"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
)

// Simulator drives an engine with randomized order flow: limit and market
// orders in a band around a mid price, with occasional cancels of still-open
// orders. The flow is fully determined by the configured seed.
type Simulator struct {
	cfg    *Config
	engine *engine.MatchingEngine
	rng    *rand.Rand
	seq    int64
	open   []string // order IDs eligible for cancellation
}

// New creates a simulator feeding the given engine.
func New(cfg *Config, eng *engine.MatchingEngine) *Simulator {
	return &Simulator{
		cfg:    cfg,
		engine: eng,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		open:   make([]string, 0, 1024),
	}
}

// Run submits random operations at the configured rate until the context is
// canceled or the configured duration elapses.
func (s *Simulator) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).With().Str("component", "simulator").Logger()
	logger.Info().
		Int("order_rate", s.cfg.OrderRate).
		Float64("price_mid", s.cfg.PriceMid).
		Int64("seed", s.cfg.Seed).
		Msg("Starting order flow")

	interval := time.Second / time.Duration(s.cfg.OrderRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if s.cfg.Duration > 0 {
		timer := time.NewTimer(s.cfg.Duration)
		defer timer.Stop()
		deadline = timer.C
	}

	var submitted, traded, canceled int64
	for {
		select {
		case <-ctx.Done():
			logger.Info().Int64("orders", submitted).Int64("trades", traded).Int64("cancels", canceled).Msg("Stopped order flow")
			return ctx.Err()
		case <-deadline:
			logger.Info().Int64("orders", submitted).Int64("trades", traded).Int64("cancels", canceled).Msg("Finished order flow")
			return nil
		case <-ticker.C:
		}

		if s.maybeCancel(ctx) {
			canceled++
			continue
		}

		order := s.NextOrder()
		trades, err := s.engine.Submit(ctx, order)
		if err != nil {
			logger.Error().Err(err).Str("order_id", order.ID()).Msg("Submit failed")
			continue
		}
		submitted++
		traded += int64(len(trades))
		if !order.IsComplete() {
			s.open = append(s.open, order.ID())
		}

		for _, trade := range trades {
			logger.Debug().
				Str("trade_id", trade.ID).
				Str("instrument", trade.Instrument).
				Str("price", trade.Price.String()).
				Int64("quantity", trade.Quantity).
				Msg("Trade")
		}
	}
}

// maybeCancel cancels a random open order with the configured probability.
// Returns true when a cancel was attempted.
func (s *Simulator) maybeCancel(ctx context.Context) bool {
	if len(s.open) == 0 || s.rng.Intn(100) >= s.cfg.CancelPct {
		return false
	}
	i := s.rng.Intn(len(s.open))
	orderID := s.open[i]
	s.open = append(s.open[:i], s.open[i+1:]...)
	s.engine.Cancel(ctx, orderID)
	return true
}

// NextOrder generates the next random order. With a fixed seed the sequence
// of generated orders is identical across runs.
func (s *Simulator) NextOrder() *core.Order {
	instruments := s.engine.Instruments()
	instrument := instruments[s.rng.Intn(len(instruments))]

	side := core.Sell
	if s.rng.Intn(2) == 1 {
		side = core.Buy
	}

	qty := s.cfg.MinQuantity + s.rng.Int63n(s.cfg.MaxQuantity-s.cfg.MinQuantity+1)

	s.seq++
	orderID := fmt.Sprintf("sim-%d", s.seq)

	if s.rng.Intn(100) < s.cfg.MarketOrderPct {
		return core.NewMarketOrder(orderID, instrument, side, qty, s.cfg.AccountID)
	}

	// Price uniformly in [mid*(1-band), mid*(1+band)], rounded to cents.
	band := s.cfg.PriceBandPct / 100
	price := s.cfg.PriceMid * (1 + band*(2*s.rng.Float64()-1))
	price = float64(int64(price*100)) / 100

	return core.NewLimitOrder(orderID, instrument, side, qty, fpdecimal.FromFloat(price), s.cfg.AccountID)
}
