// Package slippage perturbs theoretical fill prices against the trader
// to model the cost of actually reaching the market
package slippage

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/order"
)

// Model estimates an achievable fill price from a theoretical one.
// Implementations adjust against the trader, higher for buys and lower
// for sells, and never panic on degenerate candle data
type Model interface {
	Type() ModelType
	Estimate(price decimal.Decimal, side order.Side, candle *kline.Kline, amount decimal.Decimal) decimal.Decimal
}

// NewNoSlippage returns the identity model
func NewNoSlippage() *NoSlippage {
	return &NoSlippage{}
}

// NewFixedSlippage returns a model adding a flat amount against the
// trader. Amount must not be negative
func NewFixedSlippage(amount decimal.Decimal) (*FixedSlippage, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrNegativeAmount, amount)
	}
	return &FixedSlippage{amount: amount}, nil
}

// NewPercentageSlippage returns a model adjusting by rate of the
// theoretical price. Rate must not be negative
func NewPercentageSlippage(rate decimal.Decimal) (*PercentageSlippage, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrNegativeAmount, rate)
	}
	return &PercentageSlippage{rate: rate}, nil
}

// NewVolumeSlippage returns a market impact model. The adjustment is
// impact multiplied by the order's share of the candle volume, clamped
// to maxImpact of the theoretical price. A candle with zero volume is
// treated as the maximum allowed impact
func NewVolumeSlippage(impact, maxImpact decimal.Decimal) (*VolumeSlippage, error) {
	if impact.IsNegative() || maxImpact.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: impact %v max %v", ErrInvalidImpact, impact, maxImpact)
	}
	return &VolumeSlippage{impact: impact, maxImpact: maxImpact}, nil
}

// Type returns the model type
func (n *NoSlippage) Type() ModelType { return None }

// Estimate returns the theoretical price unchanged
func (n *NoSlippage) Estimate(price decimal.Decimal, _ order.Side, _ *kline.Kline, _ decimal.Decimal) decimal.Decimal {
	return price
}

// Type returns the model type
func (f *FixedSlippage) Type() ModelType { return Fixed }

// Estimate adds the flat amount against the trader. Sell fills never
// cross below zero
func (f *FixedSlippage) Estimate(price decimal.Decimal, side order.Side, _ *kline.Kline, _ decimal.Decimal) decimal.Decimal {
	return applyAgainstTrader(price, f.amount, side)
}

// Type returns the model type
func (p *PercentageSlippage) Type() ModelType { return Percentage }

// Estimate adjusts by rate of the theoretical price against the trader
func (p *PercentageSlippage) Estimate(price decimal.Decimal, side order.Side, _ *kline.Kline, _ decimal.Decimal) decimal.Decimal {
	return applyAgainstTrader(price, price.Mul(p.rate), side)
}

// Type returns the model type
func (v *VolumeSlippage) Type() ModelType { return Volume }

// Estimate scales impact by the order's share of candle volume
func (v *VolumeSlippage) Estimate(price decimal.Decimal, side order.Side, candle *kline.Kline, amount decimal.Decimal) decimal.Decimal {
	rate := v.maxImpact
	if candle != nil && candle.Volume.IsPositive() {
		rate = v.impact.Mul(amount.Div(candle.Volume))
		if rate.GreaterThan(v.maxImpact) {
			rate = v.maxImpact
		}
	}
	return applyAgainstTrader(price, price.Mul(rate), side)
}

func applyAgainstTrader(price, adjustment decimal.Decimal, side order.Side) decimal.Decimal {
	if side == order.Buy {
		return price.Add(adjustment)
	}
	adjusted := price.Sub(adjustment)
	if adjusted.IsNegative() {
		return decimal.Zero
	}
	return adjusted
}
