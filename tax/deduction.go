package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type DeductionKind string

const (
	DeductionPension          DeductionKind = "pension"
	DeductionNHF              DeductionKind = "nhf"
	DeductionNHIS             DeductionKind = "nhis"
	DeductionLifeAssurance    DeductionKind = "lifeAssurance"
	DeductionVoluntaryPension DeductionKind = "voluntaryPension"
	DeductionDues             DeductionKind = "dues"
	DeductionMortgageInterest DeductionKind = "mortgageInterest"
)

// DeductionKinds lists every kind in breakdown order.
func DeductionKinds() []DeductionKind {
	return []DeductionKind{
		DeductionPension,
		DeductionNHF,
		DeductionNHIS,
		DeductionLifeAssurance,
		DeductionVoluntaryPension,
		DeductionDues,
		DeductionMortgageInterest,
	}
}

func ParseDeductionKind(s string) (DeductionKind, error) {
	for _, kind := range DeductionKinds() {
		if strings.EqualFold(strings.TrimSpace(s), string(kind)) {
			return kind, nil
		}
	}
	return "", invalid("deductions", "unknown deduction kind %q", s)
}

// DeductionItem toggles one deduction. Rate is a percentage in [0,100];
// Amount is an annual sum. Which of the two a kind reads is fixed per kind.
type DeductionItem struct {
	Enabled bool
	Rate    decimal.Decimal
	Amount  decimal.Decimal
}

func (i DeductionItem) validate(kind DeductionKind) error {
	field := fmt.Sprintf("deductions.%s", kind)

	if i.Rate.IsNegative() || i.Rate.GreaterThan(hundred) {
		return invalid(field, "rate must be between 0 and 100")
	}

	if i.Amount.IsNegative() {
		return invalid(field, "amount must not be negative")
	}

	return nil
}

type DeductionConfig struct {
	Pension          DeductionItem
	NHF              DeductionItem
	NHIS             DeductionItem
	LifeAssurance    DeductionItem
	VoluntaryPension DeductionItem
	Dues             DeductionItem
	MortgageInterest DeductionItem
}

func (c *DeductionConfig) slot(kind DeductionKind) *DeductionItem {
	switch kind {
	case DeductionPension:
		return &c.Pension
	case DeductionNHF:
		return &c.NHF
	case DeductionNHIS:
		return &c.NHIS
	case DeductionLifeAssurance:
		return &c.LifeAssurance
	case DeductionVoluntaryPension:
		return &c.VoluntaryPension
	case DeductionDues:
		return &c.Dues
	case DeductionMortgageInterest:
		return &c.MortgageInterest
	}
	return nil
}

func (c DeductionConfig) Item(kind DeductionKind) DeductionItem {
	if s := c.slot(kind); s != nil {
		return *s
	}
	return DeductionItem{}
}

// With returns a copy of c with kind replaced. Unknown kinds leave c as is.
func (c DeductionConfig) With(kind DeductionKind, item DeductionItem) DeductionConfig {
	if s := c.slot(kind); s != nil {
		*s = item
	}
	return c
}

func (c DeductionConfig) Validate() error {
	for _, kind := range DeductionKinds() {
		if err := c.Item(kind).validate(kind); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDeductionConfig is the statutory starting point: contributory
// pension at 8%, NHF at 2.5% and NHIS at 5%, everything else off.
func DefaultDeductionConfig() DeductionConfig {
	return DeductionConfig{
		Pension: DeductionItem{Enabled: true, Rate: decimal.NewFromInt(8)},
		NHF:     DeductionItem{Enabled: true, Rate: decimal.NewFromFloat(2.5)},
		NHIS:    DeductionItem{Enabled: true, Rate: decimal.NewFromInt(5)},
	}
}

type DeductionAmount struct {
	Monthly decimal.Decimal
	Annual  decimal.Decimal
}

func fromMonthly(monthly decimal.Decimal) DeductionAmount {
	return DeductionAmount{Monthly: monthly, Annual: Annual(monthly)}
}

func fromAnnual(annual decimal.Decimal) DeductionAmount {
	return DeductionAmount{Monthly: Monthly(annual), Annual: annual}
}

type Deductions struct {
	MonthlyTotal decimal.Decimal
	AnnualTotal  decimal.Decimal
	// PerItem holds enabled kinds only.
	PerItem map[DeductionKind]DeductionAmount
}

// CalculateDeductions expects a validated composition and config.
func CalculateDeductions(comp Composition, cfg DeductionConfig, scheme Scheme) Deductions {
	out := Deductions{PerItem: make(map[DeductionKind]DeductionAmount)}

	gross := comp.GrossMonthly
	annualGross := Annual(gross)

	for _, kind := range DeductionKinds() {
		item := cfg.Item(kind)
		if !item.Enabled {
			continue
		}

		var amount DeductionAmount

		switch kind {
		case DeductionPension:
			rate := scheme.PensionRate(item.Rate)
			amount = fromMonthly(Percent(scheme.PensionableEmolument(comp), rate))
		case DeductionNHF:
			amount = fromMonthly(Percent(gross, item.Rate))
		case DeductionNHIS:
			amount = fromMonthly(Percent(comp.Basic(), item.Rate))
		case DeductionLifeAssurance:
			annual := item.Amount
			if limit, ok := scheme.LifeAssuranceCap(annualGross); ok {
				annual = decimal.Min(annual, limit)
			}
			amount = fromAnnual(annual)
		case DeductionVoluntaryPension, DeductionDues:
			amount = configured(item, gross)
		case DeductionMortgageInterest:
			if !scheme.AllowsMortgageInterest() {
				continue
			}
			amount = fromAnnual(item.Amount)
		}

		out.PerItem[kind] = amount
		out.MonthlyTotal = out.MonthlyTotal.Add(amount.Monthly)
		out.AnnualTotal = out.AnnualTotal.Add(amount.Annual)
	}

	return out
}

// configured reads a fixed annual amount when one is set and falls back to
// a rate of monthly gross otherwise.
func configured(item DeductionItem, grossMonthly decimal.Decimal) DeductionAmount {
	if item.Amount.IsPositive() {
		return fromAnnual(item.Amount)
	}
	return fromMonthly(Percent(grossMonthly, item.Rate))
}

type DeductionLine struct {
	Kind DeductionKind
	DeductionAmount
}

// Lines returns the enabled deductions in breakdown order.
func (d Deductions) Lines() []DeductionLine {
	lines := make([]DeductionLine, 0, len(d.PerItem))

	for _, kind := range DeductionKinds() {
		if amount, ok := d.PerItem[kind]; ok {
			lines = append(lines, DeductionLine{Kind: kind, DeductionAmount: amount})
		}
	}

	return lines
}
