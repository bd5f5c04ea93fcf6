package tax

import "github.com/shopspring/decimal"

// Result is built fresh by Calculate and never modified afterwards.
// Amounts carry full precision; round with Rounded at the display edge.
type Result struct {
	Scheme                Version
	GrossMonthly          decimal.Decimal
	AnnualGross           decimal.Decimal
	MonthlyDeductions     decimal.Decimal
	TotalAnnualDeductions decimal.Decimal
	AnnualCRA             decimal.Decimal
	TaxableIncome         decimal.Decimal
	AnnualTax             decimal.Decimal
	MonthlyTax            decimal.Decimal
	MonthlyNetPay         decimal.Decimal
	EffectiveRate         decimal.Decimal

	Components []Component
	Deductions Deductions
	TaxBands   []BandStatement
	Relief     Relief
}

// Calculate runs one payroll calculation. All validation happens here,
// before any arithmetic; a *ValidationError means no result was produced.
// It touches no shared state and is safe to call concurrently.
func Calculate(comp Composition, cfg DeductionConfig, scheme Scheme) (Result, error) {
	if scheme == nil {
		return Result{}, invalid("scheme", "tax scheme is required")
	}

	comp, err := comp.Validate()
	if err != nil {
		return Result{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	if (cfg.Pension.Enabled || cfg.NHIS.Enabled) && !comp.Has(ComponentBasic) {
		return Result{}, invalid("components", "a %s component is required when pension or NHIS is enabled", ComponentBasic)
	}

	annualGross := Annual(comp.GrossMonthly)
	deductions := CalculateDeductions(comp, cfg, scheme)
	relief := scheme.Relief(annualGross)

	taxable := Max0(annualGross.Sub(deductions.AnnualTotal).Sub(relief.Total))
	progressive := ComputeProgressive(taxable, scheme.Bands())

	monthlyTax := Monthly(progressive.Tax)

	return Result{
		Scheme:                scheme.Version(),
		GrossMonthly:          comp.GrossMonthly,
		AnnualGross:           annualGross,
		MonthlyDeductions:     deductions.MonthlyTotal,
		TotalAnnualDeductions: deductions.AnnualTotal,
		AnnualCRA:             relief.Total,
		TaxableIncome:         taxable,
		AnnualTax:             progressive.Tax,
		MonthlyTax:            monthlyTax,
		MonthlyNetPay:         comp.GrossMonthly.Sub(deductions.MonthlyTotal).Sub(monthlyTax),
		EffectiveRate:         progressive.Tax.Div(annualGross),
		Components:            comp.Components,
		Deductions:            deductions,
		TaxBands:              progressive.Statements,
		Relief:                relief,
	}, nil
}

// Rounded returns a copy with every amount rounded to places decimals.
// Rates are left as they are, except EffectiveRate which keeps four more
// places than the amounts.
func (r Result) Rounded(places int32) Result {
	out := r

	out.GrossMonthly = r.GrossMonthly.Round(places)
	out.AnnualGross = r.AnnualGross.Round(places)
	out.MonthlyDeductions = r.MonthlyDeductions.Round(places)
	out.TotalAnnualDeductions = r.TotalAnnualDeductions.Round(places)
	out.AnnualCRA = r.AnnualCRA.Round(places)
	out.TaxableIncome = r.TaxableIncome.Round(places)
	out.AnnualTax = r.AnnualTax.Round(places)
	out.MonthlyTax = r.MonthlyTax.Round(places)
	out.MonthlyNetPay = r.MonthlyNetPay.Round(places)
	out.EffectiveRate = r.EffectiveRate.Round(places + 4)

	out.Components = make([]Component, len(r.Components))
	for i, c := range r.Components {
		c.Value = c.Value.Round(places)
		out.Components[i] = c
	}

	out.Deductions = Deductions{
		MonthlyTotal: r.Deductions.MonthlyTotal.Round(places),
		AnnualTotal:  r.Deductions.AnnualTotal.Round(places),
		PerItem:      make(map[DeductionKind]DeductionAmount, len(r.Deductions.PerItem)),
	}
	for kind, a := range r.Deductions.PerItem {
		out.Deductions.PerItem[kind] = DeductionAmount{
			Monthly: a.Monthly.Round(places),
			Annual:  a.Annual.Round(places),
		}
	}

	out.TaxBands = make([]BandStatement, len(r.TaxBands))
	for i, s := range r.TaxBands {
		s.Amount = s.Amount.Round(places)
		s.Tax = s.Tax.Round(places)
		out.TaxBands[i] = s
	}

	out.Relief = Relief{
		Fixed:      r.Relief.Fixed.Round(places),
		Percentage: r.Relief.Percentage.Round(places),
		Total:      r.Relief.Total.Round(places),
	}

	return out
}
