package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"github.com/nikolaydubina/fpdecimal"
	"golang.org/x/time/rate"

	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/engine"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
)

var (
	numWorkers      = flag.Int("workers", 8, "Concurrent submitters")
	ordersPerWorker = flag.Int("orders", 100000, "Orders per worker")
	maxRate         = flag.Int("rate", 0, "Max orders per second, 0 for unlimited")
	instruments     = flag.String("instruments", "AAPL,MSFT,GOOGL", "Comma-separated instrument symbols")
)

func main() {
	flag.Parse()
	logging.Setup(logging.Config{Level: "warn"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, stopping...")
		cancel()
	}()

	symbols := strings.Split(*instruments, ",")
	eng := engine.NewMatchingEngine(symbols)

	var limiter *rate.Limiter
	if *maxRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(*maxRate), *maxRate)
	}

	var wg sync.WaitGroup
	hists := make([]*hdrhistogram.Histogram, *numWorkers)

	start := time.Now()
	log.Printf("Starting %d workers, %d orders per worker...", *numWorkers, *ordersPerWorker)

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		// Latencies recorded in microseconds, one histogram per worker.
		hists[i] = hdrhistogram.New(1, 10_000_000, 3)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(workerID)))
			// Pin each worker to one instrument so workers contend on the
			// engine, not on a single book lock.
			symbol := symbols[workerID%len(symbols)]

			for j := 0; j < *ordersPerWorker; j++ {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}

				order := randomOrder(rng, symbol)
				t0 := time.Now()
				if _, err := eng.Submit(ctx, order); err != nil {
					log.Printf("submit failed: %v", err)
					continue
				}
				_ = hists[workerID].RecordValue(time.Since(t0).Microseconds())
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	merged := hdrhistogram.New(1, 10_000_000, 3)
	for _, h := range hists {
		merged.Merge(h)
	}

	total := merged.TotalCount()
	fmt.Printf("\nSubmitted %d orders in %v (%.0f orders/sec)\n", total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	fmt.Printf("latency (us): p50=%d p90=%d p99=%d p99.9=%d max=%d\n",
		merged.ValueAtQuantile(50), merged.ValueAtQuantile(90),
		merged.ValueAtQuantile(99), merged.ValueAtQuantile(99.9), merged.Max())
}

// randomOrder generates a mostly-limit order around a fixed mid price so the
// book both crosses and accumulates depth.
func randomOrder(rng *rand.Rand, symbol string) *core.Order {
	orderID := uuid.NewString()
	side := core.Sell
	if rng.Intn(2) == 1 {
		side = core.Buy
	}
	qty := int64(1 + rng.Intn(100))

	if rng.Intn(10) == 0 {
		return core.NewMarketOrder(orderID, symbol, side, qty, "loadtest")
	}

	price := 100.0 + float64(rng.Intn(200))/100
	return core.NewLimitOrder(orderID, symbol, side, qty, fpdecimal.FromFloat(price), "loadtest")
}

