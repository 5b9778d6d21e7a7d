package backtest

import (
	"github.com/shopspring/decimal"
)

// unitPrecision is the number of fractional digits kept on a buy.
const unitPrecision = 8

// portfolio is the all-in/all-out account of one simulation run: it is
// either entirely in cash or entirely in the instrument.
type portfolio struct {
	cash    decimal.Decimal
	units   decimal.Decimal
	holding bool
	trades  int
}

func newPortfolio(initial decimal.Decimal) *portfolio {
	return &portfolio{
		cash:    initial,
		units:   decimal.Zero,
		holding: false,
		trades:  0,
	}
}

// buy converts all cash to units at price. The quantity is truncated to
// unitPrecision digits so that units*price never exceeds the cash spent.
// A buy that would yield zero units is skipped.
func (p *portfolio) buy(price decimal.Decimal) bool {
	if p.holding || !price.IsPositive() {
		return false
	}

	units, _ := p.cash.QuoRem(price, unitPrecision)
	if !units.IsPositive() {
		return false
	}

	p.units = units
	p.cash = decimal.Zero
	p.holding = true
	p.trades++

	return true
}

// sell converts all units back to cash at price.
func (p *portfolio) sell(price decimal.Decimal) bool {
	if !p.holding {
		return false
	}

	p.cash = p.units.Mul(price)
	p.units = decimal.Zero
	p.holding = false
	p.trades++

	return true
}

// value marks the portfolio to market at price.
func (p *portfolio) value(price decimal.Decimal) decimal.Decimal {
	if p.holding {
		return p.units.Mul(price)
	}

	return p.cash
}
