package tax

import "github.com/shopspring/decimal"

var (
	craFloor     = decimal.NewFromInt(200_000)
	craFloorRate = decimal.NewFromInt(1)
	craGrossRate = decimal.NewFromInt(20)
)

// Relief is the Consolidated Relief Allowance split into its two parts.
type Relief struct {
	Fixed      decimal.Decimal
	Percentage decimal.Decimal
	Total      decimal.Decimal
}

func newRelief(fixed, percentage decimal.Decimal) Relief {
	return Relief{
		Fixed:      fixed,
		Percentage: percentage,
		Total:      fixed.Add(percentage),
	}
}

// flatRelief is 200,000 + 20% of annual gross.
func flatRelief(annualGross decimal.Decimal) Relief {
	return newRelief(craFloor, Percent(annualGross, craGrossRate))
}

// flooredRelief is the greater of 200,000 and 1% of annual gross, plus 20%
// of annual gross.
func flooredRelief(annualGross decimal.Decimal) Relief {
	fixed := decimal.Max(craFloor, Percent(annualGross, craFloorRate))
	return newRelief(fixed, Percent(annualGross, craGrossRate))
}
