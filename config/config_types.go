package config

import (
	"errors"

	"github.com/meridianquant/backtest/log"
)

var (
	// ErrNoConfig occurs when no configuration file path is supplied
	ErrNoConfig = errors.New("no config file provided")

	errNoNickname        = errors.New("nickname unset")
	errInvalidFunds      = errors.New("initial funds must be positive")
	errNoDataSource      = errors.New("data source unset")
	errUnknownDataSource = errors.New("unknown data source")
	errNoSymbols         = errors.New("no symbols configured")
	errNoStrategy        = errors.New("strategy unset")
	errInvalidTimeRange  = errors.New("start time must precede end time")
	errUnknownSlippage   = errors.New("unknown slippage model")
	errUnknownFee        = errors.New("unknown fee model")
)

// Data source names
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// DataConfig describes where candles come from. CSVFiles maps a symbol
// to its candle file for the csv source; Symbols lists what to load
// for the database source. Benchmark optionally names a symbol whose
// closes the analyzer compares the equity curve against
type DataConfig struct {
	Source    string            `mapstructure:"source"`
	Database  string            `mapstructure:"database"`
	CSVFiles  map[string]string `mapstructure:"csv-files"`
	Symbols   []string          `mapstructure:"symbols"`
	Benchmark string            `mapstructure:"benchmark"`
}

// StrategyConfig names the signal generator and its overrides
type StrategyConfig struct {
	Name           string         `mapstructure:"name"`
	CustomSettings map[string]any `mapstructure:"custom-settings"`
}

// SlippageConfig selects and parameterises a slippage model
type SlippageConfig struct {
	Model     string  `mapstructure:"model"`
	Amount    float64 `mapstructure:"amount"`
	Rate      float64 `mapstructure:"rate"`
	Impact    float64 `mapstructure:"impact"`
	MaxImpact float64 `mapstructure:"max-impact"`
}

// TierConfig is one commission tier, applying Rate up to and including
// Threshold
type TierConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Rate      float64 `mapstructure:"rate"`
}

// FeeConfig selects and parameterises a commission model
type FeeConfig struct {
	Model  string       `mapstructure:"model"`
	Amount float64      `mapstructure:"amount"`
	Rate   float64      `mapstructure:"rate"`
	Tiers  []TierConfig `mapstructure:"tiers"`
}

// Config is the full runner configuration
type Config struct {
	Nickname      string         `mapstructure:"nickname"`
	InitialFunds  float64        `mapstructure:"initial-funds"`
	CashFloor     float64        `mapstructure:"cash-floor"`
	AllowShorting bool           `mapstructure:"allow-shorting"`
	StartTime     string         `mapstructure:"start-time"`
	EndTime       string         `mapstructure:"end-time"`
	Data          DataConfig     `mapstructure:"data"`
	Strategy      StrategyConfig `mapstructure:"strategy"`
	Slippage      SlippageConfig `mapstructure:"slippage"`
	Fees          FeeConfig      `mapstructure:"fees"`
	Log           log.Config     `mapstructure:"log"`
}
