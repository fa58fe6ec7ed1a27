// Package dollarcostaverage buys a fixed amount on every candle
// regardless of price
package dollarcostaverage

import (
	"fmt"

	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/order"
	"github.com/meridianquant/backtest/signal"
	"github.com/meridianquant/backtest/strategies/base"
)

const (
	// Name is the strategy name
	Name        = "dollarcostaverage"
	description = `Dollar cost averaging places a buy of a fixed size on every candle, accumulating a position over time without reacting to price`
)

// Strategy is an implementation of the strategies Handler interface
type Strategy struct {
	base.Strategy
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides an overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// SetCustomSettings applies user supplied overrides
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case base.AmountKey:
			if err := s.ApplyAmount(v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v", base.ErrInvalidCustomSettings, k, v)
		}
	}
	return nil
}

// OnData emits a buy signal for every candle in the series
func (s *Strategy) OnData(symbol string, candles []kline.Kline) ([]signal.Signal, error) {
	if err := s.ValidateCandles(candles, 1); err != nil {
		return nil, err
	}
	out := make([]signal.Signal, len(candles))
	for i := range candles {
		out[i] = signal.Signal{
			Time:   candles[i].Time,
			Symbol: symbol,
			Side:   order.Buy,
			Amount: s.Amount(),
			Reason: "dollar cost averaging",
		}
	}
	return out, nil
}
