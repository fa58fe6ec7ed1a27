package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianquant/backtest/exchange/fees"
	"github.com/meridianquant/backtest/exchange/slippage"
)

func validConfig() *Config {
	return &Config{
		Nickname:     "test-run",
		InitialFunds: 100000,
		Data: DataConfig{
			Source:   SourceCSV,
			CSVFiles: map[string]string{"AAPL": "aapl.csv"},
		},
		Strategy: StrategyConfig{Name: "rsi"},
	}
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	_, err := ReadConfigFromFile("")
	assert.ErrorIs(t, err, ErrNoConfig)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `nickname: sample
initial-funds: 50000
cash-floor: 1000
allow-shorting: true
start-time: "2023-01-02T00:00:00Z"
end-time: "2023-06-30T00:00:00Z"
data:
  source: csv
  csv-files:
    AAPL: testdata/aapl.csv
strategy:
  name: rsi
  custom-settings:
    rsi-period: 7
slippage:
  model: percentage
  rate: 0.001
fees:
  model: tiered
  tiers:
    - threshold: 1000
      rate: 0.002
    - threshold: 10000
      rate: 0.001
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", cfg.Nickname)
	assert.Equal(t, 50000.0, cfg.InitialFunds)
	assert.True(t, cfg.AllowShorting)
	assert.Equal(t, "rsi", cfg.Strategy.Name)
	assert.Len(t, cfg.Fees.Tiers, 2)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Nickname = ""
	assert.ErrorIs(t, cfg.Validate(), errNoNickname)

	cfg = validConfig()
	cfg.InitialFunds = 0
	assert.ErrorIs(t, cfg.Validate(), errInvalidFunds)

	cfg = validConfig()
	cfg.Data.Source = ""
	assert.ErrorIs(t, cfg.Validate(), errNoDataSource)

	cfg = validConfig()
	cfg.Data.Source = "carrier-pigeon"
	assert.ErrorIs(t, cfg.Validate(), errUnknownDataSource)

	cfg = validConfig()
	cfg.Data.CSVFiles = nil
	assert.ErrorIs(t, cfg.Validate(), errNoSymbols)

	cfg = validConfig()
	cfg.Data.Source = SourceDatabase
	assert.ErrorIs(t, cfg.Validate(), errNoSymbols)

	cfg = validConfig()
	cfg.Strategy.Name = ""
	assert.ErrorIs(t, cfg.Validate(), errNoStrategy)

	cfg = validConfig()
	cfg.StartTime = "2023-06-30T00:00:00Z"
	cfg.EndTime = "2023-01-02T00:00:00Z"
	assert.ErrorIs(t, cfg.Validate(), errInvalidTimeRange)

	cfg = validConfig()
	cfg.StartTime = "not a time"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Slippage.Model = "psychic"
	assert.ErrorIs(t, cfg.Validate(), errUnknownSlippage)

	cfg = validConfig()
	cfg.Fees.Model = "psychic"
	assert.ErrorIs(t, cfg.Validate(), errUnknownFee)
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.InitialFunds = 100000
	cfg.CashFloor = 500
	cfg.StartTime = "2023-01-02T00:00:00Z"
	cfg.Slippage = SlippageConfig{Model: "fixed", Amount: 0.05}
	cfg.Fees = FeeConfig{Model: "percentage", Rate: 0.001}

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.True(t, ec.InitialFunds.Equal(decimal.NewFromInt(100000)))
	assert.True(t, ec.CashFloor.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), ec.StartTime)
	assert.True(t, ec.EndTime.IsZero())
	assert.Equal(t, slippage.Fixed, ec.Slippage.Type())
	assert.Equal(t, fees.Percentage, ec.Fees.Type())
}

func TestModelDefaults(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, slippage.None, ec.Slippage.Type())
	assert.Equal(t, fees.None, ec.Fees.Type())
}
