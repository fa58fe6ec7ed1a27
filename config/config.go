// Package config loads and validates the runner configuration, mapping
// model names onto their constructors
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/meridianquant/backtest/engine"
	"github.com/meridianquant/backtest/exchange/fees"
	"github.com/meridianquant/backtest/exchange/slippage"
)

// ReadConfigFromFile loads a configuration file. The format is inferred
// from the file extension
func ReadConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, ErrNoConfig
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on anything a run cannot proceed without
func (c *Config) Validate() error {
	if c.Nickname == "" {
		return errNoNickname
	}
	if c.InitialFunds <= 0 {
		return errInvalidFunds
	}
	switch strings.ToLower(c.Data.Source) {
	case SourceCSV:
		if len(c.Data.CSVFiles) == 0 {
			return errNoSymbols
		}
	case SourceDatabase:
		if len(c.Data.Symbols) == 0 {
			return errNoSymbols
		}
	case "":
		return errNoDataSource
	default:
		return errors.Wrap(errUnknownDataSource, c.Data.Source)
	}
	if c.Strategy.Name == "" {
		return errNoStrategy
	}
	start, err := c.parseTime(c.StartTime)
	if err != nil {
		return errors.Wrap(err, "start-time")
	}
	end, err := c.parseTime(c.EndTime)
	if err != nil {
		return errors.Wrap(err, "end-time")
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return errInvalidTimeRange
	}
	if _, err = c.slippageModel(); err != nil {
		return err
	}
	if _, err = c.feeModel(); err != nil {
		return err
	}
	return nil
}

// EngineConfig converts the file representation into the engine's
// runtime configuration
func (c *Config) EngineConfig() (*engine.Config, error) {
	slippageModel, err := c.slippageModel()
	if err != nil {
		return nil, err
	}
	feeModel, err := c.feeModel()
	if err != nil {
		return nil, err
	}
	start, err := c.parseTime(c.StartTime)
	if err != nil {
		return nil, errors.Wrap(err, "start-time")
	}
	end, err := c.parseTime(c.EndTime)
	if err != nil {
		return nil, errors.Wrap(err, "end-time")
	}
	return &engine.Config{
		Nickname:      c.Nickname,
		InitialFunds:  decimal.NewFromFloat(c.InitialFunds),
		CashFloor:     decimal.NewFromFloat(c.CashFloor),
		StartTime:     start,
		EndTime:       end,
		AllowShorting: c.AllowShorting,
		Slippage:      slippageModel,
		Fees:          feeModel,
	}, nil
}

func (c *Config) parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (c *Config) slippageModel() (slippage.Model, error) {
	switch strings.ToLower(c.Slippage.Model) {
	case "", "none":
		return slippage.NewNoSlippage(), nil
	case "fixed":
		return slippage.NewFixedSlippage(decimal.NewFromFloat(c.Slippage.Amount))
	case "percentage":
		return slippage.NewPercentageSlippage(decimal.NewFromFloat(c.Slippage.Rate))
	case "volume":
		return slippage.NewVolumeSlippage(
			decimal.NewFromFloat(c.Slippage.Impact),
			decimal.NewFromFloat(c.Slippage.MaxImpact))
	default:
		return nil, errors.Wrap(errUnknownSlippage, c.Slippage.Model)
	}
}

func (c *Config) feeModel() (fees.Model, error) {
	switch strings.ToLower(c.Fees.Model) {
	case "", "none":
		return fees.NewNoFee(), nil
	case "fixed":
		return fees.NewFixedFee(decimal.NewFromFloat(c.Fees.Amount))
	case "pershare":
		return fees.NewPerShareFee(decimal.NewFromFloat(c.Fees.Rate))
	case "percentage":
		return fees.NewPercentageFee(decimal.NewFromFloat(c.Fees.Rate))
	case "tiered":
		tiers := make([]fees.Tier, len(c.Fees.Tiers))
		for i := range c.Fees.Tiers {
			tiers[i] = fees.Tier{
				Threshold: decimal.NewFromFloat(c.Fees.Tiers[i].Threshold),
				Rate:      decimal.NewFromFloat(c.Fees.Tiers[i].Rate),
			}
		}
		return fees.NewTieredFee(tiers)
	default:
		return nil, errors.Wrap(errUnknownFee, c.Fees.Model)
	}
}
