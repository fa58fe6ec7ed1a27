package statistics

import (
	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/common"
	"github.com/meridianquant/backtest/log"
)

func renderNullDecimal(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "undefined"
	}
	return d.Decimal.Round(places).String()
}

// PrintResults outputs the report to the configured logger
func (r *Report) PrintResults() {
	sep := r.Nickname + " |\t"
	log.Infoln(log.Statistics, "------------------Results------------------------------------")
	log.Infof(log.Statistics, "%s Run: %v", sep, r.RunID)
	log.Infof(log.Statistics, "%s Period: %v to %v",
		sep, r.StartTime.Format(common.SimpleTimeFormat), r.EndTime.Format(common.SimpleTimeFormat))
	log.Infof(log.Statistics, "%s Total return: %v%%", sep, r.TotalReturn.Mul(decimal.NewFromInt(100)).Round(2))
	log.Infof(log.Statistics, "%s Annualised volatility: %v", sep, renderNullDecimal(r.Volatility, 4))
	log.Infof(log.Statistics, "%s Sharpe ratio: %v", sep, renderNullDecimal(r.SharpeRatio, 4))

	if r.MaxDrawdown != nil {
		log.Infoln(log.Statistics, "------------------Max Drawdown-------------------------------")
		log.Infof(log.Statistics, "%s Highest equity: %v at %v",
			sep, r.MaxDrawdown.Highest.Value.Round(2), r.MaxDrawdown.Highest.Time.Format(common.SimpleTimeFormat))
		log.Infof(log.Statistics, "%s Lowest equity: %v at %v",
			sep, r.MaxDrawdown.Lowest.Value.Round(2), r.MaxDrawdown.Lowest.Time.Format(common.SimpleTimeFormat))
		log.Infof(log.Statistics, "%s Calculated drawdown: %v%%", sep, r.MaxDrawdown.DrawdownPercent.Round(2))
	}

	log.Infoln(log.Statistics, "------------------Trades-------------------------------------")
	log.Infof(log.Statistics, "%s Total trades: %d, closing: %d, winners: %d, losers: %d",
		sep, r.Trades.TotalTrades, r.Trades.ClosingTrades, r.Trades.WinningTrades, r.Trades.LosingTrades)
	log.Infof(log.Statistics, "%s Win rate: %v", sep, renderNullDecimal(r.Trades.WinRate, 4))
	log.Infof(log.Statistics, "%s Average win: %v average loss: %v",
		sep, renderNullDecimal(r.Trades.AverageWin, 2), renderNullDecimal(r.Trades.AverageLoss, 2))
	log.Infof(log.Statistics, "%s Profit factor: %v", sep, renderNullDecimal(r.Trades.ProfitFactor, 4))
	log.Infof(log.Statistics, "%s Realized P&L: %v", sep, r.Trades.TotalRealizedPNL.Round(2))

	for i := range r.PeriodReturns {
		log.Infof(log.Statistics, "%s %v return: %v%%",
			sep, r.PeriodReturns[i].Period, r.PeriodReturns[i].Return.Mul(decimal.NewFromInt(100)).Round(2))
	}

	if r.Benchmark != nil {
		log.Infoln(log.Statistics, "------------------Benchmark----------------------------------")
		if r.Benchmark.InsufficientData {
			log.Infof(log.Statistics, "%s Insufficient aligned points (%d) for benchmark comparison",
				sep, r.Benchmark.AlignedPoints)
		} else {
			log.Infof(log.Statistics, "%s Relative return: %v", sep, renderNullDecimal(r.Benchmark.RelativeReturn, 4))
			log.Infof(log.Statistics, "%s Tracking error: %v", sep, renderNullDecimal(r.Benchmark.TrackingError, 4))
			log.Infof(log.Statistics, "%s Beta: %v alpha: %v",
				sep, renderNullDecimal(r.Benchmark.Beta, 4), renderNullDecimal(r.Benchmark.Alpha, 4))
		}
	}
}
