package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnnaCarter465/paye-calculator/tax"
)

func TestSeedDefaults(t *testing.T) {
	rows := SeedDefaults()

	// every kind for both schemes, less mortgage interest under legacy
	assert.Len(t, rows, len(tax.Versions())*len(tax.DeductionKinds())-1)

	seen := make(map[string]bool)
	for _, r := range rows {
		key := r.Scheme + "/" + r.Kind
		assert.False(t, seen[key], "duplicate seed %s", key)
		seen[key] = true
	}

	for _, r := range rows {
		if r.Kind == string(tax.DeductionPension) {
			assert.True(t, r.Enabled)
			assert.Equal(t, "8", r.Rate.String())
		}
		if r.Kind == string(tax.DeductionMortgageInterest) {
			assert.False(t, r.Enabled)
			assert.Equal(t, string(tax.VersionNTA2025), r.Scheme)
		}
	}
}
