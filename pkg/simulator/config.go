package simulator

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the order flow simulator
type Config struct {
	// Flow parameters
	OrderRate    int     // orders per second
	PriceMid     float64 // center of the random price band
	PriceBandPct float64 // half-width of the band, percent of mid
	MinQuantity  int64
	MaxQuantity  int64

	// Mix parameters, in percent of submitted operations
	MarketOrderPct int
	CancelPct      int

	// Run parameters
	Seed      int64
	Duration  time.Duration // 0 means run until canceled
	AccountID string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SIM_ORDER_RATE", 50)
	v.SetDefault("SIM_PRICE_MID", 150.0)
	v.SetDefault("SIM_PRICE_BAND_PERCENT", 2.0)
	v.SetDefault("SIM_MIN_QUANTITY", 1)
	v.SetDefault("SIM_MAX_QUANTITY", 500)
	v.SetDefault("SIM_MARKET_ORDER_PERCENT", 10)
	v.SetDefault("SIM_CANCEL_PERCENT", 20)
	v.SetDefault("SIM_SEED", 1)
	v.SetDefault("SIM_DURATION_SECONDS", 0)
	v.SetDefault("SIM_ACCOUNT_ID", "sim-01")

	// Allow environment variables
	v.AutomaticEnv()

	cfg := &Config{
		OrderRate:      v.GetInt("SIM_ORDER_RATE"),
		PriceMid:       v.GetFloat64("SIM_PRICE_MID"),
		PriceBandPct:   v.GetFloat64("SIM_PRICE_BAND_PERCENT"),
		MinQuantity:    v.GetInt64("SIM_MIN_QUANTITY"),
		MaxQuantity:    v.GetInt64("SIM_MAX_QUANTITY"),
		MarketOrderPct: v.GetInt("SIM_MARKET_ORDER_PERCENT"),
		CancelPct:      v.GetInt("SIM_CANCEL_PERCENT"),
		Seed:           v.GetInt64("SIM_SEED"),
		Duration:       time.Duration(v.GetInt("SIM_DURATION_SECONDS")) * time.Second,
		AccountID:      v.GetString("SIM_ACCOUNT_ID"),
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.OrderRate <= 0 {
		return fmt.Errorf("SIM_ORDER_RATE must be positive")
	}
	if cfg.PriceMid <= 0 {
		return fmt.Errorf("SIM_PRICE_MID must be positive")
	}
	if cfg.PriceBandPct <= 0 {
		return fmt.Errorf("SIM_PRICE_BAND_PERCENT must be positive")
	}
	if cfg.MinQuantity <= 0 || cfg.MaxQuantity < cfg.MinQuantity {
		return fmt.Errorf("quantity range [%d, %d] is invalid", cfg.MinQuantity, cfg.MaxQuantity)
	}
	if cfg.MarketOrderPct < 0 || cfg.MarketOrderPct > 100 {
		return fmt.Errorf("SIM_MARKET_ORDER_PERCENT must be within [0, 100]")
	}
	if cfg.CancelPct < 0 || cfg.CancelPct > 100 {
		return fmt.Errorf("SIM_CANCEL_PERCENT must be within [0, 100]")
	}
	if cfg.AccountID == "" {
		return fmt.Errorf("SIM_ACCOUNT_ID must not be empty")
	}
	return nil
}
