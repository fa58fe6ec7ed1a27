// Package engine drives the deterministic replay loop at the centre of
// the backtester. Candles across symbols are merged into strictly
// ordered ticks, due signals are filled through the configured slippage
// and fee models, and every tick closes with a portfolio snapshot
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid"

	"github.com/meridianquant/backtest/exchange/fees"
	"github.com/meridianquant/backtest/exchange/slippage"
	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/log"
	"github.com/meridianquant/backtest/portfolio"
	"github.com/meridianquant/backtest/signal"
)

// New validates the config and returns a BackTest ready for one run.
// Nil slippage or fee models default to the identity models
func New(cfg *Config) (*BackTest, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if !cfg.EndTime.IsZero() && !cfg.StartTime.IsZero() && cfg.EndTime.Before(cfg.StartTime) {
		return nil, fmt.Errorf("%w: end %v before start %v", errInvalidTimeRange, cfg.EndTime, cfg.StartTime)
	}
	ledger, err := portfolio.New(cfg.InitialFunds, cfg.CashFloor, cfg.AllowShorting)
	if err != nil {
		return nil, err
	}
	b := &BackTest{
		cfg:      *cfg,
		slippage: cfg.Slippage,
		fees:     cfg.Fees,
		ledger:   ledger,
	}
	if b.slippage == nil {
		b.slippage = slippage.NewNoSlippage()
	}
	if b.fees == nil {
		b.fees = fees.NewNoFee()
	}
	return b, nil
}

// symbolStream is one symbol's candle cursor within the k-way merge
type symbolStream struct {
	symbol  string
	candles []kline.Kline
	offset  int
}

// Run replays the supplied candles and signals and returns the result.
// Cancellation is polled once per tick; a cancelled run returns the
// partial result accumulated so far alongside the context's error
func (b *BackTest) Run(ctx context.Context, priceData map[string][]kline.Kline, signals []signal.Signal) (*Result, error) {
	if b.hasRun {
		return nil, ErrAlreadyRan
	}
	b.hasRun = true

	streams, err := b.setupStreams(priceData)
	if err != nil {
		return nil, err
	}
	if err = signal.ValidateSequence(signals); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID:        id.String(),
		Nickname:     b.cfg.Nickname,
		InitialFunds: b.cfg.InitialFunds,
	}
	log.Infof(log.BackTester, "run %v (%v) starting with %v across %d symbols",
		result.RunID, result.Nickname, b.cfg.InitialFunds, len(streams))

	latest := make(map[string]*kline.Kline, len(streams))
	sigOffset := 0
	cancelled := false

	for {
		if ctx != nil && ctx.Err() != nil {
			cancelled = true
			break
		}

		tickTime, tickStreams := nextTick(streams)
		if len(tickStreams) == 0 {
			break
		}

		// the tick's candles become current before any signal fills so
		// executions always price off the bar being processed
		for _, s := range tickStreams {
			latest[s.symbol] = &s.candles[s.offset]
		}

		for sigOffset < len(signals) && !signals[sigOffset].Time.After(tickTime) {
			b.processSignal(&signals[sigOffset], tickTime, latest, result)
			sigOffset++
		}

		for _, s := range tickStreams {
			b.ledger.UpdateMark(s.symbol, s.candles[s.offset].Close)
			s.offset++
		}

		positionsValue, totalEquity := b.ledger.Valuation()
		result.Snapshots = append(result.Snapshots, Snapshot{
			Time:           tickTime,
			Cash:           b.ledger.Cash(),
			PositionsValue: positionsValue,
			TotalEquity:    totalEquity,
		})
	}

	for ; sigOffset < len(signals); sigOffset++ {
		s := &signals[sigOffset]
		result.Rejections = append(result.Rejections, Rejection{
			Time:   s.Time,
			Symbol: s.Symbol,
			Side:   s.Side,
			Amount: s.Amount,
			Reason: RejectionAfterFinalTick,
			Detail: "no candle data remained to execute against",
		})
	}

	b.finalise(result, cancelled)
	if cancelled {
		log.Warnf(log.BackTester, "run %v cancelled after %d ticks", result.RunID, len(result.Snapshots))
		return result, ctx.Err()
	}
	log.Infof(log.BackTester, "run %v complete: %d ticks, %d trades, %d rejections, final equity %v",
		result.RunID, len(result.Snapshots), len(result.Trades), len(result.Rejections), result.FinalEquity)
	return result, nil
}

func (b *BackTest) setupStreams(priceData map[string][]kline.Kline) ([]*symbolStream, error) {
	if len(priceData) == 0 {
		return nil, ErrNoPriceData
	}
	symbols := make([]string, 0, len(priceData))
	for s := range priceData {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	streams := make([]*symbolStream, 0, len(symbols))
	for _, s := range symbols {
		candles := priceData[s]
		if err := kline.ValidateSeries(candles); err != nil {
			return nil, fmt.Errorf("symbol %v: %w", s, err)
		}
		bounded := boundCandles(candles, b.cfg.StartTime, b.cfg.EndTime)
		if len(bounded) > 0 {
			streams = append(streams, &symbolStream{symbol: s, candles: bounded})
		}
	}
	if len(streams) == 0 {
		return nil, errNoDataInRange
	}
	return streams, nil
}

// nextTick finds the earliest pending candle time and every stream
// sharing it. Streams are visited in symbol order so ties resolve
// identically on every run
func nextTick(streams []*symbolStream) (time.Time, []*symbolStream) {
	var tickTime time.Time
	var due []*symbolStream
	for _, s := range streams {
		if s.offset >= len(s.candles) {
			continue
		}
		t := s.candles[s.offset].Time
		switch {
		case len(due) == 0 || t.Before(tickTime):
			tickTime = t
			due = append(due[:0], s)
		case t.Equal(tickTime):
			due = append(due, s)
		}
	}
	return tickTime, due
}

func (b *BackTest) processSignal(s *signal.Signal, tickTime time.Time, latest map[string]*kline.Kline, result *Result) {
	reject := func(reason RejectionReason, detail string) {
		log.Debugf(log.BackTester, "rejecting %v %v %v at %v: %v", s.Side, s.Amount, s.Symbol, tickTime, detail)
		result.Rejections = append(result.Rejections, Rejection{
			Time:   tickTime,
			Symbol: s.Symbol,
			Side:   s.Side,
			Amount: s.Amount,
			Reason: reason,
			Detail: detail,
		})
	}

	if err := s.Validate(); err != nil {
		reject(RejectionInvalidSignal, err.Error())
		return
	}
	candle, ok := latest[s.Symbol]
	if !ok {
		reject(RejectionUnknownSymbol, fmt.Sprintf("no candle data for %v", s.Symbol))
		return
	}

	theoretical := candle.Close
	if s.PriceHint.IsPositive() {
		theoretical = s.PriceHint
	}
	fillPrice := b.slippage.Estimate(theoretical, s.Side, candle, s.Amount)
	commission := b.fees.Calculate(fillPrice, s.Amount, fillPrice.Mul(s.Amount))

	trade, err := b.ledger.ApplyFill(tickTime, s.Symbol, s.Side, s.Amount, theoretical, fillPrice, commission)
	if err != nil {
		switch {
		case errors.Is(err, portfolio.ErrInsufficientFunds):
			reject(RejectionInsufficientFunds, err.Error())
		case errors.Is(err, portfolio.ErrShortingDisabled):
			reject(RejectionShortingDisabled, err.Error())
		default:
			reject(RejectionInvalidSignal, err.Error())
		}
		return
	}
	log.Debugf(log.BackTester, "filled %v %v %v at %v commission %v",
		trade.Side, trade.Amount, trade.Symbol, trade.FillPrice, trade.Commission)
}

func (b *BackTest) finalise(result *Result, cancelled bool) {
	result.Trades = b.ledger.Trades()
	result.OpenPositions = b.ledger.Positions()
	result.Cancelled = cancelled
	result.FinalEquity = b.cfg.InitialFunds
	if len(result.Snapshots) > 0 {
		result.StartTime = result.Snapshots[0].Time
		result.EndTime = result.Snapshots[len(result.Snapshots)-1].Time
		result.FinalEquity = result.Snapshots[len(result.Snapshots)-1].TotalEquity
	}
}

func boundCandles(candles []kline.Kline, start, end time.Time) []kline.Kline {
	first, last := 0, len(candles)
	if !start.IsZero() {
		for first < last && candles[first].Time.Before(start) {
			first++
		}
	}
	if !end.IsZero() {
		for last > first && candles[last-1].Time.After(end) {
			last--
		}
	}
	return candles[first:last]
}
