package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/kirknie/stock-trading-platform/config"
	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/engine"
	"github.com/kirknie/stock-trading-platform/pkg/logging"
)

var ordersFile = flag.String("orders", "-", "Path to JSONL order stream, '-' for stdin")

// command is one line of the replay stream: a submit (default) carrying an
// order, or a cancel carrying an order ID.
type command struct {
	Action  string      `json:"action,omitempty"`
	Order   *core.Order `json:"order,omitempty"`
	OrderID string      `json:"order_id,omitempty"`
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})
	ctx := context.Background()

	eng := engine.NewMatchingEngine(cfg.Market.Instruments)

	input := os.Stdin
	if *ordersFile != "-" {
		f, err := os.Open(*ordersFile)
		if err != nil {
			log.Fatalf("Failed to open order stream: %v", err)
		}
		defer f.Close()
		input = f
	}

	if err := replay(ctx, eng, input); err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	printSnapshots(ctx, eng)
}

// replay feeds the JSONL command stream through the engine, echoing trades
// as they happen.
func replay(ctx context.Context, eng *engine.MatchingEngine, input io.Reader) error {
	green := color.New(color.FgGreen).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()

	scanner := bufio.NewScanner(input)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		switch cmd.Action {
		case "cancel":
			if eng.Cancel(ctx, cmd.OrderID) {
				fmt.Println(red("canceled %s", cmd.OrderID))
			} else {
				fmt.Println(red("cancel %s: not resting", cmd.OrderID))
			}
		case "", "submit":
			if cmd.Order == nil {
				return fmt.Errorf("line %d: submit without order", line)
			}
			trades, err := eng.Submit(ctx, cmd.Order)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			for _, trade := range trades {
				fmt.Println(green("trade %s %s qty %d @ %s (buy %s / sell %s)",
					trade.ID, trade.Instrument, trade.Quantity, trade.Price, trade.BuyOrderID, trade.SellOrderID))
			}
		default:
			return fmt.Errorf("line %d: unknown action %q", line, cmd.Action)
		}
	}
	return scanner.Err()
}

func printSnapshots(ctx context.Context, eng *engine.MatchingEngine) {
	cyan := color.New(color.FgCyan).SprintfFunc()

	for _, instrument := range eng.Instruments() {
		snapshot, err := eng.MarketSnapshot(ctx, instrument)
		if err != nil {
			continue
		}
		j, _ := json.Marshal(snapshot)
		fmt.Println(cyan("%s", string(j)))
	}
}
