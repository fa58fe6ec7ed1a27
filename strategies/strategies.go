// Package strategies resolves strategy names to their implementations
package strategies

import (
	"fmt"
	"strings"

	"github.com/meridianquant/backtest/common"
	"github.com/meridianquant/backtest/strategies/base"
	"github.com/meridianquant/backtest/strategies/dollarcostaverage"
	"github.com/meridianquant/backtest/strategies/rsi"
)

var supported = []Handler{
	new(dollarcostaverage.Strategy),
	new(rsi.Strategy),
}

// GetStrategies returns every registered strategy
func GetStrategies() []Handler {
	out := make([]Handler, len(supported))
	copy(out, supported)
	return out
}

// AddStrategy registers a custom strategy so it can be loaded by name
func AddStrategy(strategy Handler) error {
	if strategy == nil {
		return common.ErrNilArguments
	}
	for i := range supported {
		if strings.EqualFold(supported[i].Name(), strategy.Name()) {
			return fmt.Errorf("'%v' %w", strategy.Name(), ErrStrategyAlreadyExists)
		}
	}
	supported = append(supported, strategy)
	return nil
}

// LoadStrategyByName returns the strategy matching name with its
// defaults applied
func LoadStrategyByName(name string) (Handler, error) {
	for i := range supported {
		if !strings.EqualFold(supported[i].Name(), name) {
			continue
		}
		strategy := supported[i]
		strategy.SetDefaults()
		return strategy, nil
	}
	return nil, fmt.Errorf("'%v' %w", name, base.ErrStrategyNotFound)
}
