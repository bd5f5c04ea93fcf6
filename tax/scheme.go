package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Version string

const (
	VersionLegacy  Version = "legacy"
	VersionNTA2025 Version = "nta2025"
)

// Scheme is one versioned set of banding and relief rules. Calculate is
// written once against it.
type Scheme interface {
	Version() Version
	Name() string
	// Bands returns a fresh copy on every call.
	Bands() Bands
	Relief(annualGross decimal.Decimal) Relief
	// PensionableEmolument is the monthly base for statutory pension.
	PensionableEmolument(c Composition) decimal.Decimal
	PensionRate(configured decimal.Decimal) decimal.Decimal
	LifeAssuranceCap(annualGross decimal.Decimal) (decimal.Decimal, bool)
	AllowsMortgageInterest() bool
}

// Legacy is the PITA schedule. Schemes carry no state, so every call
// returns an equivalent value.
func Legacy() Scheme { return legacyScheme{} }

// NTA2025 is the Nigeria Tax Act 2025 schedule.
func NTA2025() Scheme { return nta2025Scheme{} }

func Versions() []Version {
	return []Version{VersionLegacy, VersionNTA2025}
}

// Schemes returns every scheme in Versions order.
func Schemes() []Scheme {
	return []Scheme{Legacy(), NTA2025()}
}

func SchemeFor(version string) (Scheme, error) {
	switch Version(strings.ToLower(strings.TrimSpace(version))) {
	case VersionLegacy:
		return Legacy(), nil
	case VersionNTA2025:
		return NTA2025(), nil
	}
	return nil, invalid("scheme", "unknown tax scheme %q", version)
}

func band(label string, width int64, pct int64) Band {
	return Band{
		Label: label,
		Width: decimal.NewFromInt(width),
		Rate:  decimal.NewFromInt(pct).Div(hundred),
	}
}

func topBand(label string, pct int64) Band {
	return Band{
		Label: label,
		Width: unbounded,
		Rate:  decimal.NewFromInt(pct).Div(hundred),
	}
}

var (
	legacyPensionRate   = decimal.NewFromInt(8)
	lifeAssuranceCapPct = decimal.NewFromInt(10)
)

type legacyScheme struct{}

func (legacyScheme) Version() Version { return VersionLegacy }

func (legacyScheme) Name() string { return "PITA (Legacy)" }

func (legacyScheme) Bands() Bands {
	return Bands{
		band("First 300,000", 300_000, 7),
		band("Next 300,000", 300_000, 11),
		band("Next 500,000", 500_000, 15),
		band("Next 500,000", 500_000, 19),
		band("Next 1,600,000", 1_600_000, 21),
		topBand("Above 3,200,000", 24),
	}
}

func (legacyScheme) Relief(annualGross decimal.Decimal) Relief {
	return flatRelief(annualGross)
}

func (legacyScheme) PensionableEmolument(c Composition) decimal.Decimal {
	return c.BHT()
}

// PensionRate ignores the configured rate; the legacy rate is fixed.
func (legacyScheme) PensionRate(decimal.Decimal) decimal.Decimal {
	return legacyPensionRate
}

func (legacyScheme) LifeAssuranceCap(annualGross decimal.Decimal) (decimal.Decimal, bool) {
	return Percent(annualGross, lifeAssuranceCapPct), true
}

func (legacyScheme) AllowsMortgageInterest() bool { return false }

type nta2025Scheme struct{}

func (nta2025Scheme) Version() Version { return VersionNTA2025 }

func (nta2025Scheme) Name() string { return "Nigeria Tax Act 2025" }

func (nta2025Scheme) Bands() Bands {
	return Bands{
		band("First 800,000", 800_000, 0),
		band("Next 2,200,000", 2_200_000, 15),
		band("Next 9,000,000", 9_000_000, 18),
		band("Next 13,000,000", 13_000_000, 21),
		band("Next 25,000,000", 25_000_000, 23),
		topBand("Above 50,000,000", 25),
	}
}

func (nta2025Scheme) Relief(annualGross decimal.Decimal) Relief {
	return flooredRelief(annualGross)
}

func (nta2025Scheme) PensionableEmolument(c Composition) decimal.Decimal {
	return c.BHT()
}

func (nta2025Scheme) PensionRate(configured decimal.Decimal) decimal.Decimal {
	return configured
}

func (nta2025Scheme) LifeAssuranceCap(decimal.Decimal) (decimal.Decimal, bool) {
	return decimal.Zero, false
}

func (nta2025Scheme) AllowsMortgageInterest() bool { return true }
