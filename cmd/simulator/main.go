package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/kirknie/stock-trading-platform/config"
	"github.com/kirknie/stock-trading-platform/pkg/engine"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
	"github.com/kirknie/stock-trading-platform/pkg/simulator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	simCfg, err := simulator.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load simulator configuration: %v", err)
	}

	// Setup logging
	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewMatchingEngine(cfg.Market.Instruments)
	sim := simulator.New(simCfg, eng)

	if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Simulator failed: %v", err)
	}
}
