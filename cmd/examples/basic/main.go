package main

import (
	"context"
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/kirknie/stock-trading-platform/pkg/core"
	"github.com/kirknie/stock-trading-platform/pkg/engine"
)

func main() {
	ctx := context.Background()
	eng := engine.NewMatchingEngine([]string{"AAPL"})

	// Rest a sell, then cross it with a larger buy.
	sell := core.NewLimitOrder("sell-1", "AAPL", core.Sell, 10, fpdecimal.FromFloat(150.00), "alice")
	if _, err := eng.Submit(ctx, sell); err != nil {
		panic(err)
	}

	buy := core.NewLimitOrder("buy-1", "AAPL", core.Buy, 15, fpdecimal.FromFloat(150.50), "bob")
	trades, err := eng.Submit(ctx, buy)
	if err != nil {
		panic(err)
	}

	for _, trade := range trades {
		fmt.Printf("trade %s: %d @ %s (buy %s / sell %s)\n",
			trade.ID, trade.Quantity, trade.Price, trade.BuyOrderID, trade.SellOrderID)
	}

	fmt.Printf("buy order status: %s, remaining: %d\n", buy.Status(), buy.Remaining())

	snap, err := eng.MarketSnapshot(ctx, "AAPL")
	if err != nil {
		panic(err)
	}
	if snap.BestBid != nil {
		fmt.Printf("best bid: %s\n", *snap.BestBid)
	}
	if snap.BestAsk == nil {
		fmt.Println("no asks resting")
	}

	// The unfilled remainder can still be canceled.
	fmt.Printf("cancel buy-1: %v\n", eng.Cancel(ctx, "buy-1"))
	fmt.Printf("cancel buy-1 again: %v\n", eng.Cancel(ctx, "buy-1"))
}
