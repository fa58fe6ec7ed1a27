// Package portfolio is the bookkeeping ledger of a backtest run,
// tracking cash, open positions and the ordered trade audit trail with
// exact decimal arithmetic
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/order"
)

// New returns a ledger seeded with initialFunds. Cash may never drop
// beneath cashFloor on a fill unless shorting/margin is enabled
func New(initialFunds, cashFloor decimal.Decimal, allowShorting bool) (*Portfolio, error) {
	if initialFunds.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %v", ErrNegativeInitialFunds, initialFunds)
	}
	if cashFloor.GreaterThan(initialFunds) {
		return nil, fmt.Errorf("%w: floor %v funds %v", errInvalidFloor, cashFloor, initialFunds)
	}
	return &Portfolio{
		cash:       initialFunds,
		cashFloor:  cashFloor,
		allowShort: allowShorting,
		positions:  make(map[string]*Position),
	}, nil
}

// Cash returns the current cash balance
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// TotalFees returns the commission paid across all fills
func (p *Portfolio) TotalFees() decimal.Decimal {
	return p.totalFees
}

// GetPosition returns a copy of the open position for symbol
func (p *Portfolio) GetPosition(symbol string) (Position, bool) {
	pos, ok := p.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all open positions in symbol order
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.symbols))
	for _, s := range p.symbols {
		out = append(out, *p.positions[s])
	}
	return out
}

// Trades returns the ordered fill history
func (p *Portfolio) Trades() []Trade {
	out := make([]Trade, len(p.trades))
	copy(out, p.trades)
	return out
}

// ApplyFill validates affordability, mutates cash and positions and
// appends the immutable trade record. A rejected fill leaves the ledger
// untouched
func (p *Portfolio) ApplyFill(t time.Time, symbol string, side order.Side, amount, requestedPrice, fillPrice, commission decimal.Decimal) (Trade, error) {
	if symbol == "" || !side.IsValid() ||
		amount.LessThanOrEqual(decimal.Zero) ||
		fillPrice.IsNegative() || commission.IsNegative() {
		return Trade{}, errInvalidFill
	}

	notional := fillPrice.Mul(amount)
	var newCash decimal.Decimal
	switch side {
	case order.Buy:
		newCash = p.cash.Sub(notional).Sub(commission)
	case order.Sell:
		if !p.allowShort {
			pos, ok := p.positions[symbol]
			if !ok || pos.Amount.LessThan(amount) {
				return Trade{}, fmt.Errorf("%w: selling %v %v", ErrShortingDisabled, amount, symbol)
			}
		}
		newCash = p.cash.Add(notional).Sub(commission)
	}
	if !p.allowShort && newCash.LessThan(p.cashFloor) {
		return Trade{}, fmt.Errorf("%w: fill requires %v, cash %v floor %v",
			ErrInsufficientFunds, notional.Add(commission), p.cash, p.cashFloor)
	}

	pos, ok := p.positions[symbol]
	if !ok {
		pos = &Position{Symbol: symbol}
		p.positions[symbol] = pos
		p.symbols = append(p.symbols, symbol)
		sort.Strings(p.symbols)
	}
	realized, reduced := pos.change(side, amount, fillPrice)
	if pos.Amount.IsZero() {
		p.remove(symbol)
	}

	p.cash = newCash
	p.totalFees = p.totalFees.Add(commission)

	trade := Trade{
		Sequence:       int64(len(p.trades) + 1),
		Time:           t,
		Symbol:         symbol,
		Side:           side,
		Amount:         amount,
		RequestedPrice: requestedPrice,
		FillPrice:      fillPrice,
		Commission:     commission,
	}
	if reduced {
		trade.RealizedPNL = decimal.NullDecimal{Decimal: realized, Valid: true}
	}
	p.trades = append(p.trades, trade)
	return trade, nil
}

// UpdateMark revalues the open position for symbol at price
func (p *Portfolio) UpdateMark(symbol string, price decimal.Decimal) {
	if pos, ok := p.positions[symbol]; ok {
		pos.MarkPrice = price
	}
}

// Valuation returns the mark-to-market value of open positions and the
// total equity including cash. Iteration is in symbol order so repeated
// runs value identically
func (p *Portfolio) Valuation() (positionsValue, totalEquity decimal.Decimal) {
	for _, s := range p.symbols {
		pos := p.positions[s]
		positionsValue = positionsValue.Add(pos.Amount.Mul(pos.MarkPrice))
	}
	return positionsValue, p.cash.Add(positionsValue)
}

func (p *Portfolio) remove(symbol string) {
	delete(p.positions, symbol)
	for i := range p.symbols {
		if p.symbols[i] == symbol {
			p.symbols = append(p.symbols[:i], p.symbols[i+1:]...)
			break
		}
	}
}
