package slippage

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount occurs when a model is constructed with a
	// negative adjustment
	ErrNegativeAmount = errors.New("slippage amount cannot be negative")
	// ErrInvalidImpact occurs when a volume impact model is constructed
	// with an unusable coefficient or clamp
	ErrInvalidImpact = errors.New("volume impact settings invalid")
)

// ModelType enumerates the supported slippage models
type ModelType string

// Supported model types
const (
	None       ModelType = "none"
	Fixed      ModelType = "fixed"
	Percentage ModelType = "percentage"
	Volume     ModelType = "volume"
)

// NoSlippage fills at the theoretical price unchanged
type NoSlippage struct{}

// FixedSlippage moves the fill a flat amount against the trader
type FixedSlippage struct {
	amount decimal.Decimal
}

// PercentageSlippage moves the fill a fraction of the theoretical price
// against the trader. A rate of 0.01 is one percent
type PercentageSlippage struct {
	rate decimal.Decimal
}

// VolumeSlippage models market impact proportional to the share of the
// candle's volume the order consumes, clamped to maxImpact
type VolumeSlippage struct {
	impact    decimal.Decimal
	maxImpact decimal.Decimal
}
