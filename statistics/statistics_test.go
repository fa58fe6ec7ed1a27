package statistics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianquant/backtest/common"
	"github.com/meridianquant/backtest/engine"
	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/portfolio"
)

var t0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func snapshotCurve(equities ...float64) []engine.Snapshot {
	out := make([]engine.Snapshot, len(equities))
	for i := range equities {
		eq := decimal.NewFromFloat(equities[i])
		out[i] = engine.Snapshot{
			Time:        t0.AddDate(0, 0, i),
			Cash:        eq,
			TotalEquity: eq,
		}
	}
	return out
}

func resultWithCurve(equities ...float64) *engine.Result {
	snaps := snapshotCurve(equities...)
	return &engine.Result{
		RunID:        "test-run-id",
		InitialFunds: decimal.NewFromFloat(equities[0]),
		FinalEquity:  snaps[len(snaps)-1].TotalEquity,
		StartTime:    snaps[0].Time,
		EndTime:      snaps[len(snaps)-1].Time,
		Snapshots:    snaps,
	}
}

func closedTrade(pnl float64) portfolio.Trade {
	return portfolio.Trade{
		RealizedPNL: decimal.NullDecimal{Decimal: decimal.NewFromFloat(pnl), Valid: true},
	}
}

func TestCalculateResultsInvalidInput(t *testing.T) {
	t.Parallel()
	_, err := CalculateResults(nil, nil)
	assert.ErrorIs(t, err, common.ErrNilArguments)

	_, err = CalculateResults(&engine.Result{}, nil)
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestSinglePointCurveIsUndefined(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults(resultWithCurve(100000), nil)
	require.NoError(t, err)
	assert.False(t, r.SharpeRatio.Valid, "sharpe must be undefined, not zero")
	assert.False(t, r.Volatility.Valid)
	assert.Nil(t, r.MaxDrawdown, "drawdown must be undefined, not zero")
	assert.Empty(t, r.Returns)
}

func TestFlatCurveSharpeUndefined(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults(resultWithCurve(1000, 1000, 1000, 1000), nil)
	require.NoError(t, err)
	// zero variance makes the ratio undefined, never zero or infinite
	assert.False(t, r.SharpeRatio.Valid)
	require.True(t, r.Volatility.Valid)
	assert.True(t, r.Volatility.Decimal.IsZero())
	assert.True(t, r.TotalReturn.IsZero())
}

func TestReturnsSeries(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults(resultWithCurve(1000, 1100, 990), nil)
	require.NoError(t, err)
	require.Len(t, r.Returns, 2, "the first snapshot has no defined return")
	assert.True(t, r.Returns[0].Equal(decimal.NewFromFloat(0.1)), "received %v", r.Returns[0])
	assert.True(t, r.Returns[1].Equal(decimal.NewFromFloat(-0.1)), "received %v", r.Returns[1])
	assert.Equal(t, 365.0, r.PeriodsPerYear)
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults(resultWithCurve(100, 120, 90, 95, 130, 110), nil)
	require.NoError(t, err)
	require.NotNil(t, r.MaxDrawdown)
	assert.True(t, r.MaxDrawdown.Highest.Value.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, t0.AddDate(0, 0, 1), r.MaxDrawdown.Highest.Time)
	assert.True(t, r.MaxDrawdown.Lowest.Value.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, t0.AddDate(0, 0, 2), r.MaxDrawdown.Lowest.Time)
	assert.True(t, r.MaxDrawdown.DrawdownPercent.Equal(decimal.NewFromInt(-25)),
		"received %v", r.MaxDrawdown.DrawdownPercent)
}

func TestMaxDrawdownMonotonicCurve(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults(resultWithCurve(100, 110, 120), nil)
	require.NoError(t, err)
	require.NotNil(t, r.MaxDrawdown)
	assert.True(t, r.MaxDrawdown.DrawdownPercent.IsZero())
}

func TestTradeStatistics(t *testing.T) {
	t.Parallel()
	res := resultWithCurve(1000, 1100)
	res.Trades = []portfolio.Trade{
		{}, // opening trade, no realized P&L
		closedTrade(10),
		closedTrade(-5),
		closedTrade(20),
	}
	r, err := CalculateResults(res, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), r.Trades.TotalTrades)
	assert.Equal(t, int64(3), r.Trades.ClosingTrades)
	assert.Equal(t, int64(2), r.Trades.WinningTrades)
	assert.Equal(t, int64(1), r.Trades.LosingTrades)
	require.True(t, r.Trades.WinRate.Valid)
	f, _ := r.Trades.WinRate.Decimal.Float64()
	assert.InDelta(t, 2.0/3.0, f, 0.0001)
	require.True(t, r.Trades.AverageWin.Valid)
	assert.True(t, r.Trades.AverageWin.Decimal.Equal(decimal.NewFromInt(15)))
	require.True(t, r.Trades.AverageLoss.Valid)
	assert.True(t, r.Trades.AverageLoss.Decimal.Equal(decimal.NewFromInt(5)))
	require.True(t, r.Trades.ProfitFactor.Valid)
	assert.True(t, r.Trades.ProfitFactor.Decimal.Equal(decimal.NewFromInt(6)))
	assert.True(t, r.Trades.TotalRealizedPNL.Equal(decimal.NewFromInt(25)))
}

func TestProfitFactorUndefinedWithoutLosses(t *testing.T) {
	t.Parallel()
	res := resultWithCurve(1000, 1100)
	res.Trades = []portfolio.Trade{closedTrade(10), closedTrade(20)}
	r, err := CalculateResults(res, nil)
	require.NoError(t, err)
	assert.False(t, r.Trades.ProfitFactor.Valid, "profit factor must be undefined, not infinite")
	assert.False(t, r.Trades.AverageLoss.Valid)
	require.True(t, r.Trades.WinRate.Valid)
	assert.True(t, r.Trades.WinRate.Decimal.Equal(decimal.NewFromInt(1)))
}

func TestPeriodReturns(t *testing.T) {
	t.Parallel()
	res := &engine.Result{
		RunID:        "x",
		InitialFunds: decimal.NewFromInt(1000),
		Snapshots: []engine.Snapshot{
			{Time: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), TotalEquity: decimal.NewFromInt(1050)},
			{Time: time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC), TotalEquity: decimal.NewFromInt(1100)},
			{Time: time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), TotalEquity: decimal.NewFromInt(1210)},
		},
		FinalEquity: decimal.NewFromInt(1210),
	}
	r, err := CalculateResults(res, nil)
	require.NoError(t, err)
	require.Len(t, r.PeriodReturns, 2)
	assert.Equal(t, "2023-01", r.PeriodReturns[0].Period)
	assert.True(t, r.PeriodReturns[0].Return.Equal(decimal.NewFromFloat(0.1)),
		"received %v", r.PeriodReturns[0].Return)
	assert.Equal(t, "2023-02", r.PeriodReturns[1].Period)
	assert.True(t, r.PeriodReturns[1].Return.Equal(decimal.NewFromFloat(0.1)),
		"received %v", r.PeriodReturns[1].Return)
}

func TestBenchmarkInsufficientData(t *testing.T) {
	t.Parallel()
	benchmark := []kline.Kline{
		{Time: t0.AddDate(1, 0, 0), Close: decimal.NewFromInt(100)},
	}
	r, err := CalculateResults(resultWithCurve(1000, 1100, 1200), benchmark)
	require.NoError(t, err)
	require.NotNil(t, r.Benchmark)
	assert.True(t, r.Benchmark.InsufficientData)
	assert.Equal(t, 0, r.Benchmark.AlignedPoints)
	assert.False(t, r.Benchmark.Beta.Valid)
}

func TestBenchmarkComparison(t *testing.T) {
	t.Parallel()
	// equity moves exactly twice the benchmark, beta must be 2
	res := resultWithCurve(1000, 1200, 960)
	benchmark := []kline.Kline{
		{Time: t0, Close: decimal.NewFromInt(100)},
		{Time: t0.AddDate(0, 0, 1), Close: decimal.NewFromInt(110)},
		{Time: t0.AddDate(0, 0, 2), Close: decimal.NewFromInt(99)},
	}
	r, err := CalculateResults(res, benchmark)
	require.NoError(t, err)
	require.NotNil(t, r.Benchmark)
	assert.False(t, r.Benchmark.InsufficientData)
	assert.Equal(t, 3, r.Benchmark.AlignedPoints)

	require.True(t, r.Benchmark.Beta.Valid)
	f, _ := r.Benchmark.Beta.Decimal.Float64()
	assert.InDelta(t, 2.0, f, 0.0001)

	require.True(t, r.Benchmark.RelativeReturn.Valid)
	// strategy -4%, benchmark -1%
	f, _ = r.Benchmark.RelativeReturn.Decimal.Float64()
	assert.InDelta(t, -0.03, f, 0.0001)

	require.True(t, r.Benchmark.TrackingError.Valid)
	f, _ = r.Benchmark.TrackingError.Decimal.Float64()
	assert.InDelta(t, 0.14142, f, 0.001)
}

func TestCalculateResultsIdempotent(t *testing.T) {
	t.Parallel()
	res := resultWithCurve(1000, 1100, 990, 1200)
	res.Trades = []portfolio.Trade{closedTrade(10), closedTrade(-4)}
	first, err := CalculateResults(res, nil)
	require.NoError(t, err)
	second, err := CalculateResults(res, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
