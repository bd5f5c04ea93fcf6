package database

import (
	"context"
	"fmt"

	"github.com/AnnaCarter465/paye-calculator/tax"
)

const createDeductionDefaults = `
	CREATE TABLE IF NOT EXISTS deduction_defaults (
		scheme  TEXT           NOT NULL,
		kind    TEXT           NOT NULL,
		enabled BOOLEAN        NOT NULL DEFAULT FALSE,
		rate    NUMERIC(7, 4)  NOT NULL DEFAULT 0,
		amount  NUMERIC(20, 2) NOT NULL DEFAULT 0,
		PRIMARY KEY (scheme, kind)
	)
`

// Migrate creates the preset table and seeds every scheme with the
// statutory defaults. Existing rows are left alone.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.GetSQLDB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, createDeductionDefaults); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create deduction_defaults: %w", err)
	}

	for _, d := range SeedDefaults() {
		_, err := tx.ExecContext(
			ctx,
			`
				INSERT INTO deduction_defaults (scheme, kind, enabled, rate, amount)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (scheme, kind) DO NOTHING
			`, d.Scheme, d.Kind, d.Enabled, d.Rate, d.Amount)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed %s/%s: %w", d.Scheme, d.Kind, err)
		}
	}

	return tx.Commit()
}

// SeedDefaults is one row per scheme and deduction kind the scheme accepts.
func SeedDefaults() []DeductionDefault {
	cfg := tax.DefaultDeductionConfig()

	var rows []DeductionDefault

	for _, scheme := range tax.Schemes() {
		for _, kind := range tax.DeductionKinds() {
			if kind == tax.DeductionMortgageInterest && !scheme.AllowsMortgageInterest() {
				continue
			}

			item := cfg.Item(kind)
			rows = append(rows, DeductionDefault{
				Scheme:  string(scheme.Version()),
				Kind:    string(kind),
				Enabled: item.Enabled,
				Rate:    item.Rate,
				Amount:  item.Amount,
			})
		}
	}

	return rows
}
