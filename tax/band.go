package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var unbounded = decimal.NewFromInt(-1)

// Band is one slice of a progressive schedule. A negative Width marks the
// open top band.
type Band struct {
	Label string
	Width decimal.Decimal
	Rate  decimal.Decimal
}

func (b Band) IsUnbounded() bool {
	return b.Width.IsNegative()
}

type Bands []Band

// Validate reports defects in band data: widths must be positive, rates in
// [0,1], and exactly one open band which must be last.
func (bs Bands) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("no bands")
	}

	for i, b := range bs {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("band %d (%s): rate %s out of range", i, b.Label, b.Rate)
		}

		last := i == len(bs)-1

		if b.IsUnbounded() != last {
			return fmt.Errorf("band %d (%s): only the last band may be unbounded", i, b.Label)
		}

		if !last && !b.Width.IsPositive() {
			return fmt.Errorf("band %d (%s): width must be positive", i, b.Label)
		}
	}

	return nil
}

type BandStatement struct {
	Label  string
	Rate   decimal.Decimal
	Amount decimal.Decimal
	Tax    decimal.Decimal
}

type Progressive struct {
	Statements []BandStatement
	Tax        decimal.Decimal
}

// ComputeProgressive walks the bands lowest first, filling each before
// moving on. Bands that receive nothing are left out of the statements.
func ComputeProgressive(taxableIncome decimal.Decimal, bands Bands) Progressive {
	statements := make([]BandStatement, 0, len(bands))

	var totalTax decimal.Decimal

	remain := Max0(taxableIncome)

	for _, band := range bands {
		if !remain.IsPositive() {
			break
		}

		amount := remain

		// highest stage or infinity stage
		if !band.IsUnbounded() && remain.GreaterThan(band.Width) {
			amount = band.Width
		}

		tax := amount.Mul(band.Rate)
		totalTax = totalTax.Add(tax)
		remain = remain.Sub(amount)

		statements = append(statements, BandStatement{
			Label:  band.Label,
			Rate:   band.Rate,
			Amount: amount,
			Tax:    tax,
		})
	}

	return Progressive{
		Statements: statements,
		Tax:        totalTax,
	}
}
