package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoSnapshots occurs when a result carries no equity curve at all
	ErrNoSnapshots = errors.New("result contains no snapshots")
)

// Iteration pins a value to a point in time
type Iteration struct {
	Time  time.Time
	Value decimal.Decimal
}

// Swing describes the largest peak-to-trough decline of the equity
// curve. DrawdownPercent is negative or zero
type Swing struct {
	Highest         Iteration
	Lowest          Iteration
	DrawdownPercent decimal.Decimal
}

// TradeStatistics summarises the closed-trade pattern of a run. Ratio
// fields are only valid when their denominators exist; an invalid
// NullDecimal means undefined, never zero
type TradeStatistics struct {
	TotalTrades      int64
	ClosingTrades    int64
	WinningTrades    int64
	LosingTrades     int64
	TotalRealizedPNL decimal.Decimal
	WinRate          decimal.NullDecimal
	AverageWin       decimal.NullDecimal
	AverageLoss      decimal.NullDecimal
	ProfitFactor     decimal.NullDecimal
}

// PeriodReturn is the simple return of one calendar month
type PeriodReturn struct {
	Period string
	Return decimal.Decimal
}

// BenchmarkComparison relates the equity curve to a supplied benchmark
// over their shared timestamps only. With fewer than two aligned points
// InsufficientData is set and every metric is left undefined
type BenchmarkComparison struct {
	AlignedPoints    int
	InsufficientData bool
	StrategyReturn   decimal.NullDecimal
	BenchmarkReturn  decimal.NullDecimal
	RelativeReturn   decimal.NullDecimal
	TrackingError    decimal.NullDecimal
	Beta             decimal.NullDecimal
	Alpha            decimal.NullDecimal
}

// Report is the analyzer's output, derived purely from a finished run
type Report struct {
	RunID          string
	Nickname       string
	StartTime      time.Time
	EndTime        time.Time
	PeriodsPerYear float64
	TotalReturn    decimal.Decimal
	Returns        []decimal.Decimal
	Volatility     decimal.NullDecimal
	SharpeRatio    decimal.NullDecimal
	MaxDrawdown    *Swing
	PeriodReturns  []PeriodReturn
	Trades         TradeStatistics
	Benchmark      *BenchmarkComparison
}
