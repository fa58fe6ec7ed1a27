package strategies

import (
	"errors"

	"github.com/meridianquant/backtest/kline"
	"github.com/meridianquant/backtest/signal"
)

var (
	// ErrStrategyAlreadyExists occurs when a strategy of the same name
	// has already been registered
	ErrStrategyAlreadyExists = errors.New("strategy already exists")
)

// Handler generates trade signals from candle data ahead of a run
type Handler interface {
	Name() string
	Description() string
	SetDefaults()
	SetCustomSettings(map[string]any) error
	OnData(symbol string, candles []kline.Kline) ([]signal.Signal, error)
}
