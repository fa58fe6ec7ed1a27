// Package statistics derives risk and performance metrics from a
// finished backtest. It is a pure function of its inputs, holds no
// state between calls and is safe to run concurrently over independent
// results
package statistics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/common"
	decmath "github.com/meridianquant/backtest/common/math"
	"github.com/meridianquant/backtest/engine"
	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/portfolio"
)

// CalculateResults analyses a finished run, optionally against a
// benchmark candle series. The result is never mutated
func CalculateResults(result *engine.Result, benchmark []kline.Kline) (*Report, error) {
	if result == nil {
		return nil, common.ErrNilArguments
	}
	if len(result.Snapshots) == 0 {
		return nil, ErrNoSnapshots
	}

	r := &Report{
		RunID:     result.RunID,
		Nickname:  result.Nickname,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
	}

	if len(result.Snapshots) > 1 {
		interval := kline.Interval(result.Snapshots[1].Time.Sub(result.Snapshots[0].Time))
		if perYear, err := interval.IntervalsPerYear(); err == nil {
			r.PeriodsPerYear = perYear
		}
	}

	r.Returns = returnsSeries(result.Snapshots)
	if result.InitialFunds.IsPositive() {
		r.TotalReturn = result.FinalEquity.Sub(result.InitialFunds).Div(result.InitialFunds)
	}

	if volatility, err := decmath.DecimalSampleStandardDeviation(r.Returns); err == nil {
		annualised := volatility.Mul(decimal.NewFromFloat(math.Sqrt(r.PeriodsPerYear)))
		r.Volatility = decimal.NullDecimal{Decimal: annualised, Valid: true}
	}
	if sharpe, err := decmath.DecimalSharpeRatio(r.Returns, decimal.Zero, r.PeriodsPerYear); err == nil {
		r.SharpeRatio = decimal.NullDecimal{Decimal: sharpe, Valid: true}
	}

	r.MaxDrawdown = calculateMaxDrawdown(result.Snapshots)
	r.PeriodReturns = calculatePeriodReturns(result.InitialFunds, result.Snapshots)
	r.Trades = calculateTradeStatistics(result.Trades)
	if benchmark != nil {
		r.Benchmark = compareToBenchmark(result.Snapshots, benchmark)
	}
	return r, nil
}

// returnsSeries yields the per-snapshot simple returns. The first
// snapshot has no defined return and is excluded rather than zero
// filled; snapshots following a zero equity are skipped as no return
// can be expressed against a zero base
func returnsSeries(snapshots []engine.Snapshot) []decimal.Decimal {
	var returns []decimal.Decimal
	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1].TotalEquity
		if prev.IsZero() {
			continue
		}
		returns = append(returns, snapshots[i].TotalEquity.Sub(prev).Div(prev))
	}
	return returns
}

// calculateMaxDrawdown walks the equity curve once tracking the running
// peak. A single-point curve has no defined drawdown and yields nil
func calculateMaxDrawdown(snapshots []engine.Snapshot) *Swing {
	if len(snapshots) < 2 {
		return nil
	}
	peak := Iteration{Time: snapshots[0].Time, Value: snapshots[0].TotalEquity}
	worst := Swing{Highest: peak, Lowest: peak}
	for i := range snapshots {
		equity := snapshots[i].TotalEquity
		if equity.GreaterThan(peak.Value) {
			peak = Iteration{Time: snapshots[i].Time, Value: equity}
			continue
		}
		if !peak.Value.IsPositive() {
			continue
		}
		dd := equity.Sub(peak.Value).Div(peak.Value).Mul(decimal.NewFromInt(100))
		if dd.LessThan(worst.DrawdownPercent) {
			worst = Swing{
				Highest:         peak,
				Lowest:          Iteration{Time: snapshots[i].Time, Value: equity},
				DrawdownPercent: dd,
			}
		}
	}
	return &worst
}

// calculatePeriodReturns buckets the equity curve by calendar month
func calculatePeriodReturns(initialFunds decimal.Decimal, snapshots []engine.Snapshot) []PeriodReturn {
	var out []PeriodReturn
	base := initialFunds
	currentPeriod := ""
	lastEquity := initialFunds
	flush := func() {
		if currentPeriod == "" || !base.IsPositive() {
			return
		}
		out = append(out, PeriodReturn{
			Period: currentPeriod,
			Return: lastEquity.Sub(base).Div(base),
		})
	}
	for i := range snapshots {
		period := snapshots[i].Time.Format("2006-01")
		if period != currentPeriod {
			flush()
			base = lastEquity
			currentPeriod = period
		}
		lastEquity = snapshots[i].TotalEquity
	}
	flush()
	return out
}

func calculateTradeStatistics(trades []portfolio.Trade) TradeStatistics {
	var stats TradeStatistics
	var sumWins, sumLosses decimal.Decimal
	for i := range trades {
		stats.TotalTrades++
		if !trades[i].RealizedPNL.Valid {
			continue
		}
		stats.ClosingTrades++
		pnl := trades[i].RealizedPNL.Decimal
		stats.TotalRealizedPNL = stats.TotalRealizedPNL.Add(pnl)
		switch {
		case pnl.IsPositive():
			stats.WinningTrades++
			sumWins = sumWins.Add(pnl)
		case pnl.IsNegative():
			stats.LosingTrades++
			sumLosses = sumLosses.Add(pnl)
		}
	}
	if stats.ClosingTrades > 0 {
		stats.WinRate = decimal.NullDecimal{
			Decimal: decimal.NewFromInt(stats.WinningTrades).Div(decimal.NewFromInt(stats.ClosingTrades)),
			Valid:   true,
		}
	}
	if stats.WinningTrades > 0 {
		stats.AverageWin = decimal.NullDecimal{
			Decimal: sumWins.Div(decimal.NewFromInt(stats.WinningTrades)),
			Valid:   true,
		}
	}
	if stats.LosingTrades > 0 {
		stats.AverageLoss = decimal.NullDecimal{
			Decimal: sumLosses.Abs().Div(decimal.NewFromInt(stats.LosingTrades)),
			Valid:   true,
		}
		// the profit factor is undefined, not infinite, without losers
		stats.ProfitFactor = decimal.NullDecimal{
			Decimal: sumWins.Div(sumLosses.Abs()),
			Valid:   true,
		}
	}
	return stats
}
