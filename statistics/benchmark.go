package statistics

import (
	"github.com/shopspring/decimal"

	decmath "github.com/meridianquant/backtest/common/math"
	"github.com/meridianquant/backtest/engine"
	"github.com/meridianquant/backtest/kline"
)

// compareToBenchmark aligns the equity curve and benchmark closes on
// their shared timestamps only; gaps are dropped, never forward filled.
// Fewer than two aligned points produces an explicit insufficient data
// marker rather than a spurious number
func compareToBenchmark(snapshots []engine.Snapshot, benchmark []kline.Kline) *BenchmarkComparison {
	closes := make(map[int64]decimal.Decimal, len(benchmark))
	for i := range benchmark {
		closes[benchmark[i].Time.UnixNano()] = benchmark[i].Close
	}

	var equity, bench []decimal.Decimal
	for i := range snapshots {
		c, ok := closes[snapshots[i].Time.UnixNano()]
		if !ok {
			continue
		}
		equity = append(equity, snapshots[i].TotalEquity)
		bench = append(bench, c)
	}

	c := &BenchmarkComparison{AlignedPoints: len(equity)}
	if len(equity) < 2 {
		c.InsufficientData = true
		return c
	}

	if equity[0].IsPositive() && bench[0].IsPositive() {
		strategyReturn := equity[len(equity)-1].Sub(equity[0]).Div(equity[0])
		benchmarkReturn := bench[len(bench)-1].Sub(bench[0]).Div(bench[0])
		c.StrategyReturn = decimal.NullDecimal{Decimal: strategyReturn, Valid: true}
		c.BenchmarkReturn = decimal.NullDecimal{Decimal: benchmarkReturn, Valid: true}
		c.RelativeReturn = decimal.NullDecimal{Decimal: strategyReturn.Sub(benchmarkReturn), Valid: true}
	}

	equityReturns := pairwiseReturns(equity)
	benchReturns := pairwiseReturns(bench)
	if len(equityReturns) != len(benchReturns) {
		return c
	}

	diffs := make([]decimal.Decimal, len(equityReturns))
	for i := range equityReturns {
		diffs[i] = equityReturns[i].Sub(benchReturns[i])
	}
	if te, err := decmath.DecimalSampleStandardDeviation(diffs); err == nil {
		c.TrackingError = decimal.NullDecimal{Decimal: te, Valid: true}
	}
	if beta, alpha, err := decmath.DecimalOrdinaryLeastSquares(benchReturns, equityReturns); err == nil {
		c.Beta = decimal.NullDecimal{Decimal: beta, Valid: true}
		c.Alpha = decimal.NullDecimal{Decimal: alpha, Valid: true}
	}
	return c
}

func pairwiseReturns(values []decimal.Decimal) []decimal.Decimal {
	var out []decimal.Decimal
	for i := 1; i < len(values); i++ {
		if values[i-1].IsZero() {
			continue
		}
		out = append(out, values[i].Sub(values[i-1]).Div(values[i-1]))
	}
	return out
}
