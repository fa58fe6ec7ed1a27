package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/meridianquant/backtest/order"
)

// AverageCost returns the weighted average entry price of the open lots
func (p *Position) AverageCost() decimal.Decimal {
	var amount, value decimal.Decimal
	for i := range p.lots {
		amount = amount.Add(p.lots[i].amount)
		value = value.Add(p.lots[i].amount.Mul(p.lots[i].price))
	}
	if amount.IsZero() {
		return decimal.Zero
	}
	return value.Div(amount)
}

// change applies one fill to the position and returns the realized
// profit from any reduction along with whether exposure was reduced.
// Increases append a lot, reductions consume lots oldest first. A fill
// larger than the open exposure flips the position, opening a fresh lot
// on the other side with the remainder
func (p *Position) change(side order.Side, amount, price decimal.Decimal) (realized decimal.Decimal, reduced bool) {
	increasing := (side == order.Buy && !p.Amount.IsNegative()) ||
		(side == order.Sell && !p.Amount.IsPositive())
	if increasing {
		p.lots = append(p.lots, lot{amount: amount, price: price})
	} else {
		remaining := amount
		for len(p.lots) > 0 && remaining.IsPositive() {
			consumed := decimal.Min(remaining, p.lots[0].amount)
			perUnit := price.Sub(p.lots[0].price)
			if p.Amount.IsNegative() {
				// closing shorts profits when price fell
				perUnit = p.lots[0].price.Sub(price)
			}
			realized = realized.Add(perUnit.Mul(consumed))
			reduced = true
			p.lots[0].amount = p.lots[0].amount.Sub(consumed)
			if p.lots[0].amount.IsZero() {
				p.lots = p.lots[1:]
			}
			remaining = remaining.Sub(consumed)
		}
		if remaining.IsPositive() {
			p.lots = append(p.lots, lot{amount: remaining, price: price})
		}
	}

	if side == order.Buy {
		p.Amount = p.Amount.Add(amount)
	} else {
		p.Amount = p.Amount.Sub(amount)
	}
	p.MarkPrice = price
	return realized, reduced
}
