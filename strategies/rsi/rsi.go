// Package rsi trades on the relative strength index of the close
// series, buying oversold candles and selling overbought ones
package rsi

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/order"
	"github.com/meridianquant/backtest/signal"
	"github.com/meridianquant/backtest/strategies/base"
)

const (
	// Name is the strategy name
	Name         = "rsi"
	rsiPeriodKey = "rsi-period"
	rsiLowKey    = "rsi-low"
	rsiHighKey   = "rsi-high"
	description  = `The relative strength index is a technical indicator charting the strength or weakness of a market from the closing prices of a recent trading period`
)

// Strategy is an implementation of the strategies Handler interface
type Strategy struct {
	base.Strategy
	rsiPeriod decimal.Decimal
	rsiLow    decimal.Decimal
	rsiHigh   decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides an overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// SetDefaults sets the default RSI period and bands
func (s *Strategy) SetDefaults() {
	s.Strategy.SetDefaults()
	s.rsiPeriod = decimal.NewFromInt(14)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiHigh = decimal.NewFromInt(70)
}

// SetCustomSettings allows a user to modify the RSI limits
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case base.AmountKey:
			if err := s.ApplyAmount(v); err != nil {
				return err
			}
		case rsiHighKey:
			rsiHigh, ok := base.Float64(v)
			if !ok || rsiHigh <= 0 {
				return fmt.Errorf("%w provided rsi-high value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiHigh = decimal.NewFromFloat(rsiHigh)
		case rsiLowKey:
			rsiLow, ok := base.Float64(v)
			if !ok || rsiLow <= 0 {
				return fmt.Errorf("%w provided rsi-low value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiLow = decimal.NewFromFloat(rsiLow)
		case rsiPeriodKey:
			rsiPeriod, ok := base.Float64(v)
			if !ok || rsiPeriod <= 0 {
				return fmt.Errorf("%w provided rsi-period value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.rsiPeriod = decimal.NewFromFloat(rsiPeriod)
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v", base.ErrInvalidCustomSettings, k, v)
		}
	}
	return nil
}

// OnData walks the close series and emits a buy signal when the RSI
// dips to the low band while flat, and a sell when it reaches the high
// band while holding. Candles inside the warmup period produce nothing
func (s *Strategy) OnData(symbol string, candles []kline.Kline) ([]signal.Signal, error) {
	period := int(s.rsiPeriod.IntPart())
	if err := s.ValidateCandles(candles, period+1); err != nil {
		return nil, err
	}

	closes := make([]float64, len(candles))
	for i := range candles {
		closes[i], _ = candles[i].Close.Float64()
	}
	rsi := indicators.RSI(closes, period)

	var out []signal.Signal
	holding := false
	for i := period; i < len(candles); i++ {
		value := decimal.NewFromFloat(rsi[i])
		switch {
		case !holding && value.LessThanOrEqual(s.rsiLow):
			holding = true
			out = append(out, signal.Signal{
				Time:   candles[i].Time,
				Symbol: symbol,
				Side:   order.Buy,
				Amount: s.Amount(),
				Reason: fmt.Sprintf("RSI at %v", value.Round(2)),
			})
		case holding && value.GreaterThanOrEqual(s.rsiHigh):
			holding = false
			out = append(out, signal.Signal{
				Time:   candles[i].Time,
				Symbol: symbol,
				Side:   order.Sell,
				Amount: s.Amount(),
				Reason: fmt.Sprintf("RSI at %v", value.Round(2)),
			})
		}
	}
	return out, nil
}
