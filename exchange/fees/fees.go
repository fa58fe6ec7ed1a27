// Package fees models the transaction costs charged on simulated fills
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Model computes the commission charged on one fill. Results are always
// greater than or equal to zero
type Model interface {
	Type() ModelType
	Calculate(fillPrice, amount, notional decimal.Decimal) decimal.Decimal
}

// NewNoFee returns a model charging nothing
func NewNoFee() *NoFee {
	return &NoFee{}
}

// NewFixedFee returns a model charging perTrade on every fill
func NewFixedFee(perTrade decimal.Decimal) (*FixedFee, error) {
	if perTrade.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrNegativeRate, perTrade)
	}
	return &FixedFee{perTrade: perTrade}, nil
}

// NewPerShareFee returns a model charging rate per unit traded
func NewPerShareFee(rate decimal.Decimal) (*PerShareFee, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrNegativeRate, rate)
	}
	return &PerShareFee{rate: rate}, nil
}

// NewPercentageFee returns a model charging rate of the trade notional.
// A rate of 0.001 is ten basis points
func NewPercentageFee(rate decimal.Decimal) (*PercentageFee, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: %v", ErrNegativeRate, rate)
	}
	return &PercentageFee{rate: rate}, nil
}

// NewTieredFee returns a model selecting a percentage rate by notional
// breakpoint. Tiers must be present, strictly ascending by threshold and
// carry non-negative rates
func NewTieredFee(tiers []Tier) (*TieredFee, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidTiers)
	}
	for i := range tiers {
		if tiers[i].Rate.IsNegative() {
			return nil, fmt.Errorf("%w: tier %d", ErrNegativeRate, i)
		}
		if tiers[i].Threshold.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: tier %d threshold %v", ErrInvalidTiers, i, tiers[i].Threshold)
		}
		if i > 0 && tiers[i].Threshold.LessThanOrEqual(tiers[i-1].Threshold) {
			return nil, fmt.Errorf("%w: tier %d not ascending", ErrInvalidTiers, i)
		}
	}
	t := &TieredFee{tiers: make([]Tier, len(tiers))}
	copy(t.tiers, tiers)
	return t, nil
}

// Type returns the model type
func (n *NoFee) Type() ModelType { return None }

// Calculate returns zero
func (n *NoFee) Calculate(_, _, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// Type returns the model type
func (f *FixedFee) Type() ModelType { return Fixed }

// Calculate returns the flat per trade charge
func (f *FixedFee) Calculate(_, _, _ decimal.Decimal) decimal.Decimal {
	return f.perTrade
}

// Type returns the model type
func (p *PerShareFee) Type() ModelType { return PerShare }

// Calculate charges rate for every unit traded
func (p *PerShareFee) Calculate(_, amount, _ decimal.Decimal) decimal.Decimal {
	return p.rate.Mul(amount)
}

// Type returns the model type
func (p *PercentageFee) Type() ModelType { return Percentage }

// Calculate charges rate of the trade notional
func (p *PercentageFee) Calculate(_, _, notional decimal.Decimal) decimal.Decimal {
	return p.rate.Mul(notional)
}

// Type returns the model type
func (t *TieredFee) Type() ModelType { return Tiered }

// Calculate charges the rate of the first tier whose threshold is
// greater than or equal to notional. The bound is inclusive so a trade
// landing exactly on a breakpoint belongs to the cheaper tier below it
func (t *TieredFee) Calculate(_, _, notional decimal.Decimal) decimal.Decimal {
	rate := t.tiers[len(t.tiers)-1].Rate
	for i := range t.tiers {
		if t.tiers[i].Threshold.GreaterThanOrEqual(notional) {
			rate = t.tiers[i].Rate
			break
		}
	}
	return rate.Mul(notional)
}
