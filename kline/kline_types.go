package kline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnorderedSeries occurs when a candle series is not sorted by
	// strictly increasing timestamp
	ErrUnorderedSeries = errors.New("candle series timestamps are not strictly increasing")
	// ErrNoCandleData occurs when an operation requires at least one candle
	ErrNoCandleData    = errors.New("no candle data")
	errInvalidInterval = errors.New("candle interval must be positive")
)

// Kline holds one OHLCV candle. Values are read-only once handed
// to the engine
type Kline struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Interval is the period one candle summarises
type Interval time.Duration

// Common candle intervals
const (
	OneMin     = Interval(time.Minute)
	FiveMin    = Interval(5 * time.Minute)
	FifteenMin = Interval(15 * time.Minute)
	OneHour    = Interval(time.Hour)
	FourHour   = Interval(4 * time.Hour)
	OneDay     = Interval(24 * time.Hour)
	OneWeek    = Interval(7 * 24 * time.Hour)
	OneYear    = Interval(365 * 24 * time.Hour)
)
