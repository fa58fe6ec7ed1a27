package portfolio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/order"
)

var (
	// ErrInsufficientFunds occurs when a fill would take cash below the
	// configured floor
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrShortingDisabled occurs when a sell would flip a position short
	// while shorting is not permitted
	ErrShortingDisabled = errors.New("shorting is not permitted")
	// ErrNegativeInitialFunds occurs at construction with bad capital
	ErrNegativeInitialFunds = errors.New("initial funds must be positive")
	errInvalidFloor         = errors.New("cash floor cannot exceed initial funds")
	errInvalidFill          = errors.New("fill values invalid")
)

// lot is one FIFO parcel of an open position. Amount is always positive,
// the position's sign carries the direction
type lot struct {
	amount decimal.Decimal
	price  decimal.Decimal
}

// Position is the per-symbol open exposure. Amount is signed, negative
// when short. Exactly one position exists per symbol with non-zero
// amount; flat positions are removed from the ledger
type Position struct {
	Symbol    string
	Amount    decimal.Decimal
	MarkPrice decimal.Decimal
	lots      []lot
}

// Trade is the immutable audit record of one executed fill.
// RealizedPNL is only valid when the fill reduced existing exposure and
// is gross of commission, which is recorded separately
type Trade struct {
	Sequence       int64
	Time           time.Time
	Symbol         string
	Side           order.Side
	Amount         decimal.Decimal
	RequestedPrice decimal.Decimal
	FillPrice      decimal.Decimal
	Commission     decimal.Decimal
	RealizedPNL    decimal.NullDecimal
}

// Portfolio is the ledger one engine run exclusively owns. It tracks
// cash, open positions and the ordered trade history
type Portfolio struct {
	cash       decimal.Decimal
	cashFloor  decimal.Decimal
	allowShort bool
	positions  map[string]*Position
	symbols    []string
	trades     []Trade
	totalFees  decimal.Decimal
}
