package tax

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "expected %s, but got %s", want, got.String())
}

func bhtComposition(gross string) Composition {
	return Composition{
		GrossMonthly: d(gross),
		Components: []Component{
			{Name: ComponentBasic, Percentage: d("60")},
			{Name: ComponentHousing, Percentage: d("25")},
			{Name: ComponentTransport, Percentage: d("15")},
		},
	}
}

func pensionOnly(rate string) DeductionConfig {
	return DeductionConfig{
		Pension: DeductionItem{Enabled: true, Rate: d(rate)},
	}
}

func TestCalculateLegacy(t *testing.T) {
	got, err := Calculate(bhtComposition("500000"), pensionOnly("8"), Legacy())
	require.NoError(t, err)

	assert.Equal(t, VersionLegacy, got.Scheme)
	assertDecimal(t, "6000000", got.AnnualGross)
	assertDecimal(t, "480000", got.TotalAnnualDeductions)
	assertDecimal(t, "40000", got.MonthlyDeductions)
	assertDecimal(t, "200000", got.Relief.Fixed)
	assertDecimal(t, "1200000", got.Relief.Percentage)
	assertDecimal(t, "1400000", got.AnnualCRA)
	assertDecimal(t, "4120000", got.TaxableIncome)
	assertDecimal(t, "780800", got.AnnualTax)
	assertDecimal(t, "65066.67", got.MonthlyTax.Round(2))
	assertDecimal(t, "394933.33", got.MonthlyNetPay.Round(2))

	want := []BandStatement{
		{Label: "First 300,000", Rate: d("0.07"), Amount: d("300000"), Tax: d("21000")},
		{Label: "Next 300,000", Rate: d("0.11"), Amount: d("300000"), Tax: d("33000")},
		{Label: "Next 500,000", Rate: d("0.15"), Amount: d("500000"), Tax: d("75000")},
		{Label: "Next 500,000", Rate: d("0.19"), Amount: d("500000"), Tax: d("95000")},
		{Label: "Next 1,600,000", Rate: d("0.21"), Amount: d("1600000"), Tax: d("336000")},
		{Label: "Above 3,200,000", Rate: d("0.24"), Amount: d("920000"), Tax: d("220800")},
	}

	require.Len(t, got.TaxBands, len(want))
	for i, w := range want {
		assert.Equal(t, w.Label, got.TaxBands[i].Label)
		assertDecimal(t, w.Rate.String(), got.TaxBands[i].Rate)
		assertDecimal(t, w.Amount.String(), got.TaxBands[i].Amount)
		assertDecimal(t, w.Tax.String(), got.TaxBands[i].Tax)
	}

	pension, ok := got.Deductions.PerItem[DeductionPension]
	require.True(t, ok)
	assertDecimal(t, "40000", pension.Monthly)
	assertDecimal(t, "480000", pension.Annual)
}

func TestCalculateNTA2025(t *testing.T) {
	got, err := Calculate(bhtComposition("500000"), pensionOnly("8"), NTA2025())
	require.NoError(t, err)

	assertDecimal(t, "1400000", got.AnnualCRA)
	assertDecimal(t, "4120000", got.TaxableIncome)
	// 800,000@0% + 2,200,000@15% + 1,120,000@18%
	assertDecimal(t, "531600", got.AnnualTax)
	assertDecimal(t, "44300", got.MonthlyTax)
	assertDecimal(t, "415700", got.MonthlyNetPay)

	require.Len(t, got.TaxBands, 3)
	assertDecimal(t, "0", got.TaxBands[0].Tax)
	assertDecimal(t, "800000", got.TaxBands[0].Amount)
}

func TestCalculateHighIncome(t *testing.T) {
	type TC struct {
		name          string
		scheme        Scheme
		wantCRA       string
		wantTaxable   string
		wantAnnualTax string
	}

	tcs := []TC{
		{
			name:          "legacy",
			scheme:        Legacy(),
			wantCRA:       "6200000",
			wantTaxable:   "21400000",
			wantAnnualTax: "4928000",
		},
		{
			name:          "nta2025 uses the 1% floor",
			scheme:        NTA2025(),
			wantCRA:       "6300000",
			wantTaxable:   "21300000",
			wantAnnualTax: "3903000",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(bhtComposition("2500000"), pensionOnly("8"), tc.scheme)
			require.NoError(t, err)

			assertDecimal(t, tc.wantCRA, got.AnnualCRA)
			assertDecimal(t, tc.wantTaxable, got.TaxableIncome)
			assertDecimal(t, tc.wantAnnualTax, got.AnnualTax)
		})
	}
}

func TestCalculateValidation(t *testing.T) {
	type TC struct {
		name  string
		comp  Composition
		cfg   DeductionConfig
		field string
	}

	tcs := []TC{
		{
			name:  "zero gross",
			comp:  bhtComposition("0"),
			cfg:   pensionOnly("8"),
			field: "grossMonthly",
		},
		{
			name:  "negative gross",
			comp:  bhtComposition("-1"),
			cfg:   pensionOnly("8"),
			field: "grossMonthly",
		},
		{
			name: "percentages short of 100",
			comp: Composition{
				GrossMonthly: d("500000"),
				Components: []Component{
					{Name: ComponentBasic, Percentage: d("60")},
					{Name: ComponentHousing, Percentage: d("22")},
					{Name: ComponentTransport, Percentage: d("15")},
				},
			},
			cfg:   pensionOnly("8"),
			field: "components",
		},
		{
			name:  "rate above 100",
			comp:  bhtComposition("500000"),
			cfg:   pensionOnly("100.5"),
			field: "deductions.pension",
		},
		{
			name: "negative amount",
			comp: bhtComposition("500000"),
			cfg: DeductionConfig{
				LifeAssurance: DeductionItem{Enabled: true, Amount: d("-10")},
			},
			field: "deductions.lifeAssurance",
		},
		{
			name: "pension without a basic component",
			comp: Composition{
				GrossMonthly: d("500000"),
				Components: []Component{
					{Name: "Basic Salary", Percentage: d("60")},
					{Name: "Housing Allowance", Percentage: d("25")},
					{Name: "Transport Allowance", Percentage: d("15")},
				},
			},
			cfg:   pensionOnly("8"),
			field: "components",
		},
		{
			name: "disabled items are still checked",
			comp: bhtComposition("500000"),
			cfg: DeductionConfig{
				NHF: DeductionItem{Rate: d("-2")},
			},
			field: "deductions.nhf",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.comp, tc.cfg, Legacy())

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, Result{}, got)
		})
	}
}

func TestCalculatePercentageTotalMessage(t *testing.T) {
	comp := Composition{
		GrossMonthly: d("500000"),
		Components: []Component{
			{Name: ComponentBasic, Percentage: d("60")},
			{Name: ComponentHousing, Percentage: d("22")},
			{Name: ComponentTransport, Percentage: d("15")},
		},
	}

	_, err := Calculate(comp, pensionOnly("8"), Legacy())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.NotNil(t, verr.Total)
	assertDecimal(t, "97", *verr.Total)
	assert.Equal(t, "Total component percentage is 97.0%. It must be exactly 100%.", verr.Display())
	assert.Equal(t, "components: component percentages must total 100%", verr.Error())
}

func TestCalculateNilScheme(t *testing.T) {
	_, err := Calculate(bhtComposition("500000"), pensionOnly("8"), nil)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCalculateZeroFloor(t *testing.T) {
	cfg := DefaultDeductionConfig()

	for _, scheme := range []Scheme{Legacy(), NTA2025()} {
		t.Run(string(scheme.Version()), func(t *testing.T) {
			got, err := Calculate(bhtComposition("10000"), cfg, scheme)
			require.NoError(t, err)

			assertDecimal(t, "0", got.TaxableIncome)
			assertDecimal(t, "0", got.AnnualTax)
			assertDecimal(t, "0", got.MonthlyTax)
			assert.NotNil(t, got.TaxBands)
			assert.Empty(t, got.TaxBands)
			assertDecimal(t, "0", got.EffectiveRate)
		})
	}
}

func TestCalculateSchemeIsolation(t *testing.T) {
	comp := bhtComposition("2500000")
	cfg := pensionOnly("8")

	legacy, err := Calculate(comp, cfg, Legacy())
	require.NoError(t, err)

	nta, err := Calculate(comp, cfg, NTA2025())
	require.NoError(t, err)

	assert.False(t, legacy.AnnualCRA.Equal(nta.AnnualCRA))
	assert.False(t, legacy.AnnualTax.Equal(nta.AnnualTax))

	again, err := Calculate(comp, cfg, Legacy())
	require.NoError(t, err)
	assertDecimal(t, legacy.AnnualTax.String(), again.AnnualTax)
}

func TestCalculateDoesNotTouchInput(t *testing.T) {
	comp := bhtComposition("500000")
	comp.Components[0].Value = d("1")

	_, err := Calculate(comp, pensionOnly("8"), Legacy())
	require.NoError(t, err)

	assertDecimal(t, "1", comp.Components[0].Value)
}

func TestCalculateConcurrent(t *testing.T) {
	want, err := Calculate(bhtComposition("750000"), DefaultDeductionConfig(), NTA2025())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 32)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Calculate(bhtComposition("750000"), DefaultDeductionConfig(), NTA2025())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assertDecimal(t, want.AnnualTax.String(), got.AnnualTax)
		assertDecimal(t, want.MonthlyNetPay.String(), got.MonthlyNetPay)
	}
}

func TestResultRounded(t *testing.T) {
	got, err := Calculate(bhtComposition("500000"), pensionOnly("8"), Legacy())
	require.NoError(t, err)

	r := got.Rounded(2)

	assert.Equal(t, "65066.67", r.MonthlyTax.StringFixed(2))
	assert.Equal(t, "394933.33", r.MonthlyNetPay.StringFixed(2))
	assertDecimal(t, "0.1301", r.EffectiveRate.Round(4))

	// the original keeps full precision
	assert.False(t, got.MonthlyTax.Equal(r.MonthlyTax))
}

func TestCalculateWithoutBasicWhenBaseUnused(t *testing.T) {
	comp := Composition{
		GrossMonthly: d("500000"),
		Components: []Component{
			{Name: "Basic Salary", Percentage: d("60")},
			{Name: "Allowances", Percentage: d("40")},
		},
	}
	cfg := DeductionConfig{NHF: DeductionItem{Enabled: true, Rate: d("2.5")}}

	got, err := Calculate(comp, cfg, NTA2025())

	require.NoError(t, err)
	assertDecimal(t, "150000", got.TotalAnnualDeductions)
}
