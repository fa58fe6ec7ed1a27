package signal

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/order"
)

var (
	// ErrInvalidAmount occurs when a signal requests a non-positive amount
	ErrInvalidAmount = errors.New("signal amount must be positive")
	// ErrNoSymbol occurs when a signal has no instrument symbol
	ErrNoSymbol = errors.New("signal symbol unset")
	// ErrUnorderedSignals occurs when a signal stream is not sorted by
	// non-decreasing timestamp
	ErrUnorderedSignals = errors.New("signal timestamps are not in non-decreasing order")
)

// Signal is one trading instruction produced by an upstream strategy.
// PriceHint optionally overrides the candle close as the theoretical
// fill price; a zero hint means fill at close
type Signal struct {
	Time      time.Time
	Symbol    string
	Side      order.Side
	Amount    decimal.Decimal
	PriceHint decimal.Decimal
	Reason    string
}

// Validate ensures the signal can be considered for execution
func (s *Signal) Validate() error {
	if s.Symbol == "" {
		return ErrNoSymbol
	}
	if !s.Side.IsValid() {
		return fmt.Errorf("%w: %q", order.ErrSideIsInvalid, s.Side)
	}
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, s.Amount)
	}
	if s.PriceHint.IsNegative() {
		return fmt.Errorf("%w: price hint %v", ErrInvalidAmount, s.PriceHint)
	}
	return nil
}

// ValidateSequence ensures a signal stream can be replayed in order.
// Equal timestamps are permitted, they execute in stream order
func ValidateSequence(signals []Signal) error {
	for x := range signals {
		if x == 0 {
			continue
		}
		if signals[x].Time.Before(signals[x-1].Time) {
			return fmt.Errorf("%w: %v followed by %v",
				ErrUnorderedSignals, signals[x-1].Time, signals[x].Time)
		}
	}
	return nil
}
