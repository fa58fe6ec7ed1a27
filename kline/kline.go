package kline

import (
	"fmt"
	"time"
)

// Duration returns the interval as a time.Duration
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// String implements the stringer interface
func (i Interval) String() string {
	return i.Duration().String()
}

// IntervalsPerYear returns how many intervals there are in a year
func (i Interval) IntervalsPerYear() (float64, error) {
	if i <= 0 {
		return 0, errInvalidInterval
	}
	return float64(OneYear.Duration().Nanoseconds()) / float64(i.Duration().Nanoseconds()), nil
}

// ValidateSeries ensures a candle series is usable by the engine,
// requiring at least one candle and strictly increasing timestamps
func ValidateSeries(candles []Kline) error {
	if len(candles) == 0 {
		return ErrNoCandleData
	}
	for x := range candles {
		if x == 0 {
			continue
		}
		if !candles[x].Time.After(candles[x-1].Time) {
			return fmt.Errorf("%w: %v followed by %v",
				ErrUnorderedSeries, candles[x-1].Time, candles[x].Time)
		}
	}
	return nil
}
