package fees

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeRate occurs when a model is constructed with a negative
	// charge
	ErrNegativeRate = errors.New("commission rate cannot be negative")
	// ErrInvalidTiers occurs when tiered breakpoints are missing or not
	// strictly ascending
	ErrInvalidTiers = errors.New("tiered commission breakpoints invalid")
)

// ModelType enumerates the supported commission models
type ModelType string

// Supported model types
const (
	None       ModelType = "none"
	Fixed      ModelType = "fixed"
	PerShare   ModelType = "per-share"
	Percentage ModelType = "percentage"
	Tiered     ModelType = "tiered"
)

// NoFee charges nothing
type NoFee struct{}

// FixedFee charges a flat amount per trade regardless of size
type FixedFee struct {
	perTrade decimal.Decimal
}

// PerShareFee charges a rate for every unit traded
type PerShareFee struct {
	rate decimal.Decimal
}

// PercentageFee charges a fraction of the trade notional
type PercentageFee struct {
	rate decimal.Decimal
}

// Tier pairs an inclusive notional upper bound with the percentage rate
// charged for trades falling at or beneath it
type Tier struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// TieredFee charges the rate of the first tier whose threshold is
// greater than or equal to the trade notional. Notionals beyond the last
// threshold are charged at the last tier's rate
type TieredFee struct {
	tiers []Tier
}
