package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/meridianquant/backtest/config"
	"github.com/meridianquant/backtest/data/csv"
	"github.com/meridianquant/backtest/data/database"
	"github.com/meridianquant/backtest/engine"
	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/log"
	tradesignal "github.com/meridianquant/backtest/signal"
	"github.com/meridianquant/backtest/statistics"
	"github.com/meridianquant/backtest/strategies"
)

func main() {
	app := cli.NewApp()
	app.Name = "backtester"
	app.Usage = "runs a strategy against historic candle data and reports the results"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Usage:     "path to the run configuration file",
			TakesFile: true,
			Required:  true,
		},
	}
	app.Action = runBacktest
	app.Commands = []*cli.Command{
		{
			Name:   "strategies",
			Usage:  "list the available strategies",
			Action: listStrategies,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf(log.BackTester, "could not run backtest: %v", err)
		os.Exit(1)
	}
}

func listStrategies(_ *cli.Context) error {
	for _, strategy := range strategies.GetStrategies() {
		log.Infof(log.BackTester, "%v: %v", strategy.Name(), strategy.Description())
	}
	return nil
}

func runBacktest(c *cli.Context) error {
	cfg, err := config.ReadConfigFromFile(c.String("config"))
	if err != nil {
		return err
	}
	if err = log.Setup(cfg.Log); err != nil {
		return err
	}

	engineConfig, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	priceData, benchmark, err := loadData(cfg, engineConfig)
	if err != nil {
		return err
	}

	signals, err := generateSignals(cfg, priceData)
	if err != nil {
		return err
	}
	log.Infof(log.BackTester, "generated %v signals across %v symbols",
		len(signals), len(priceData))

	bt, err := engine.New(engineConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := bt.Run(ctx, priceData, signals)
	if err != nil {
		if result == nil || !result.Cancelled {
			return err
		}
		log.Warnf(log.BackTester, "run cancelled, reporting partial results")
	}

	report, err := statistics.CalculateResults(result, benchmark)
	if err != nil {
		return err
	}
	report.PrintResults()
	return nil
}

// loadData materialises the candle series for every configured symbol,
// plus the benchmark series when one is named
func loadData(cfg *config.Config, engineConfig *engine.Config) (map[string][]kline.Kline, []kline.Kline, error) {
	switch cfg.Data.Source {
	case config.SourceCSV:
		return loadCSVData(cfg)
	case config.SourceDatabase:
		return loadDatabaseData(cfg, engineConfig)
	}
	// Validate rejects unknown sources before this point
	return nil, nil, config.ErrNoConfig
}

func loadCSVData(cfg *config.Config) (map[string][]kline.Kline, []kline.Kline, error) {
	priceData := make(map[string][]kline.Kline, len(cfg.Data.CSVFiles))
	var benchmark []kline.Kline
	for symbol, file := range cfg.Data.CSVFiles {
		candles, err := csv.LoadCandles(file)
		if err != nil {
			return nil, nil, err
		}
		if symbol == cfg.Data.Benchmark {
			benchmark = candles
			continue
		}
		priceData[symbol] = candles
	}
	return priceData, benchmark, nil
}

func loadDatabaseData(cfg *config.Config, engineConfig *engine.Config) (map[string][]kline.Kline, []kline.Kline, error) {
	store, err := database.Connect(cfg.Data.Database)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if errClose := store.Close(); errClose != nil {
			log.Errorf(log.Data, "could not close database: %v", errClose)
		}
	}()

	start := engineConfig.StartTime
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	end := engineConfig.EndTime
	if end.IsZero() {
		end = time.Now().UTC()
	}

	priceData := make(map[string][]kline.Kline, len(cfg.Data.Symbols))
	for _, symbol := range cfg.Data.Symbols {
		candles, err := store.Series(symbol, start, end)
		if err != nil {
			return nil, nil, err
		}
		priceData[symbol] = candles
	}
	var benchmark []kline.Kline
	if cfg.Data.Benchmark != "" {
		if benchmark, err = store.Series(cfg.Data.Benchmark, start, end); err != nil {
			return nil, nil, err
		}
	}
	return priceData, benchmark, nil
}

// generateSignals runs the configured strategy over each symbol and
// merges the output into one time-ordered stream
func generateSignals(cfg *config.Config, priceData map[string][]kline.Kline) ([]tradesignal.Signal, error) {
	strategy, err := strategies.LoadStrategyByName(cfg.Strategy.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.Strategy.CustomSettings) > 0 {
		if err = strategy.SetCustomSettings(cfg.Strategy.CustomSettings); err != nil {
			return nil, err
		}
	}

	symbols := make([]string, 0, len(priceData))
	for symbol := range priceData {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var signals []tradesignal.Signal
	for _, symbol := range symbols {
		generated, err := strategy.OnData(symbol, priceData[symbol])
		if err != nil {
			return nil, err
		}
		signals = append(signals, generated...)
	}
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Time.Before(signals[j].Time)
	})
	return signals, nil
}
