package engine

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/exchange/fees"
	"github.com/meridianquant/backtest/exchange/slippage"
	"github.com/meridianquant/backtest/order"
	"github.com/meridianquant/backtest/portfolio"
)

var (
	// ErrNilConfig occurs when no configuration is supplied
	ErrNilConfig = errors.New("nil config received")
	// ErrNoPriceData occurs when a run is started without candles
	ErrNoPriceData = errors.New("no price data supplied")
	// ErrAlreadyRan occurs when a BackTest instance is reused. One
	// instance owns one ledger for one run
	ErrAlreadyRan       = errors.New("backtest has already been run")
	errNoDataInRange    = errors.New("no candles within the configured time bounds")
	errInvalidTimeRange = errors.New("start time must precede end time")
)

// RejectionReason codes why a signal did not become a trade
type RejectionReason string

// Rejection reasons recorded on the result
const (
	RejectionInvalidSignal     RejectionReason = "invalid-signal"
	RejectionUnknownSymbol     RejectionReason = "unknown-symbol"
	RejectionInsufficientFunds RejectionReason = "insufficient-funds"
	RejectionShortingDisabled  RejectionReason = "shorting-disabled"
	RejectionAfterFinalTick    RejectionReason = "after-final-tick"
)

// Config holds the externally tunable knobs for one run. It is not
// read again after New returns
type Config struct {
	Nickname      string
	InitialFunds  decimal.Decimal
	CashFloor     decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	AllowShorting bool
	Slippage      slippage.Model
	Fees          fees.Model
}

// Snapshot is one point-in-time portfolio valuation, produced once per
// processed tick
type Snapshot struct {
	Time           time.Time
	Cash           decimal.Decimal
	PositionsValue decimal.Decimal
	TotalEquity    decimal.Decimal
}

// Rejection is the audit record of a signal that could not execute
type Rejection struct {
	Time   time.Time
	Symbol string
	Side   order.Side
	Amount decimal.Decimal
	Reason RejectionReason
	Detail string
}

// Result is the terminal output of one run. The engine keeps no
// reference to it after Run returns
type Result struct {
	RunID         string
	Nickname      string
	InitialFunds  decimal.Decimal
	FinalEquity   decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
	Trades        []portfolio.Trade
	Snapshots     []Snapshot
	Rejections    []Rejection
	OpenPositions []portfolio.Position
	Cancelled     bool
}

// BackTest replays candles and signals against an exclusively owned
// ledger. Construct one per run
type BackTest struct {
	cfg      Config
	slippage slippage.Model
	fees     fees.Model
	ledger   *portfolio.Portfolio
	hasRun   bool
}
