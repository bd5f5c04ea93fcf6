package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ComponentBasic     = "Basic"
	ComponentHousing   = "Housing"
	ComponentTransport = "Transport"
)

// percentageTolerance is how far, in percentage points, a composition may
// drift from 100% and still be accepted.
var percentageTolerance = decimal.NewFromFloat(0.1)

// Component is one named share of gross pay. Pension and NHIS read their
// base from components named Basic, Housing and Transport (case-insensitive),
// so compositions using other names carry no pensionable emolument.
type Component struct {
	Name       string
	Percentage decimal.Decimal
	Value      decimal.Decimal
}

type Composition struct {
	GrossMonthly decimal.Decimal
	Components   []Component
}

// Validate checks the composition and returns a copy whose component values
// are derived from their percentages. When no component carries a
// percentage, values are taken as given and percentages are back-derived,
// so the 100% rule applies to both kinds of input.
func (c Composition) Validate() (Composition, error) {
	if !c.GrossMonthly.IsPositive() {
		return Composition{}, invalid("grossMonthly", "gross monthly income must be greater than zero")
	}

	if len(c.Components) == 0 {
		return Composition{}, invalid("components", "at least one salary component is required")
	}

	percentageDriven := false

	for _, comp := range c.Components {
		if strings.TrimSpace(comp.Name) == "" {
			return Composition{}, invalid("components", "component name is required")
		}

		if comp.Percentage.IsNegative() || comp.Percentage.GreaterThan(hundred) {
			return Composition{}, invalid("components", "%s percentage must be between 0 and 100", comp.Name)
		}

		if comp.Value.IsNegative() {
			return Composition{}, invalid("components", "%s value must not be negative", comp.Name)
		}

		if comp.Percentage.IsPositive() {
			percentageDriven = true
		}
	}

	out := Composition{
		GrossMonthly: c.GrossMonthly,
		Components:   make([]Component, len(c.Components)),
	}

	var total decimal.Decimal

	for i, comp := range c.Components {
		if percentageDriven {
			comp.Value = Percent(c.GrossMonthly, comp.Percentage)
		} else {
			comp.Percentage = comp.Value.Div(c.GrossMonthly).Mul(hundred)
		}

		total = total.Add(comp.Percentage)
		out.Components[i] = comp
	}

	if total.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return Composition{}, &ValidationError{
			Field:   "components",
			Message: "component percentages must total 100%",
			Total:   &total,
		}
	}

	return out, nil
}

// Amount sums the monthly values of the named components. Names match
// case-insensitively.
func (c Composition) Amount(names ...string) decimal.Decimal {
	var sum decimal.Decimal

	for _, comp := range c.Components {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(comp.Name), name) {
				sum = sum.Add(comp.Value)
				break
			}
		}
	}

	return sum
}

// Has reports whether any of the named components is present, whatever its
// value.
func (c Composition) Has(names ...string) bool {
	for _, comp := range c.Components {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(comp.Name), name) {
				return true
			}
		}
	}

	return false
}

func (c Composition) Basic() decimal.Decimal {
	return c.Amount(ComponentBasic)
}

// BHT is Basic + Housing + Transport.
func (c Composition) BHT() decimal.Decimal {
	return c.Amount(ComponentBasic, ComponentHousing, ComponentTransport)
}

// Percentages re-derives each component's share of gross from its value.
func (c Composition) Percentages() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.Components))

	if !c.GrossMonthly.IsPositive() {
		return out
	}

	for i, comp := range c.Components {
		out[i] = comp.Value.Div(c.GrossMonthly).Mul(hundred)
	}

	return out
}
