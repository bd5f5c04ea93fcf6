package tax

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Percent returns amount × pct/100.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(monthsInYear)
}

func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(monthsInYear)
}

func Max0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
