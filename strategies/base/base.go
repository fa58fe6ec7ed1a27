// Package base holds the shared behaviour every strategy embeds:
// common validation, the trade size setting and the errors strategies
// report
package base

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/kline"
)

var (
	// ErrStrategyNotFound occurs when a strategy name cannot be resolved
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrInvalidCustomSettings occurs when a custom setting cannot be
	// applied to a strategy
	ErrInvalidCustomSettings = errors.New("invalid custom settings")
	// ErrTooMuchBadData occurs when a candle series is insufficient for
	// the strategy to produce any signal
	ErrTooMuchBadData = errors.New("not enough candle data for strategy")
)

// AmountKey is the custom setting shared by all strategies controlling
// how many units each generated signal requests
const AmountKey = "amount"

// Strategy is embedded by every strategy implementation
type Strategy struct {
	amount decimal.Decimal
}

// SetDefaults sets the shared default trade size
func (s *Strategy) SetDefaults() {
	s.amount = decimal.NewFromInt(1)
}

// Amount returns the per-signal trade size
func (s *Strategy) Amount() decimal.Decimal {
	return s.amount
}

// ApplyAmount parses the shared amount custom setting
func (s *Strategy) ApplyAmount(v any) error {
	amount, ok := Float64(v)
	if !ok || amount <= 0 {
		return fmt.Errorf("%w provided amount could not be parsed: %v", ErrInvalidCustomSettings, v)
	}
	s.amount = decimal.NewFromFloat(amount)
	return nil
}

// Float64 coerces the numeric types a config decoder can hand back.
// YAML integers arrive as int where JSON would deliver float64
func Float64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ValidateCandles ensures a series is usable before signal generation
func (s *Strategy) ValidateCandles(candles []kline.Kline, minimum int) error {
	if len(candles) == 0 {
		return kline.ErrNoCandleData
	}
	if len(candles) < minimum {
		return fmt.Errorf("%w: have %v, need %v", ErrTooMuchBadData, len(candles), minimum)
	}
	return nil
}
