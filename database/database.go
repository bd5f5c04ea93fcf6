package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Ping(ctx context.Context) error {
	return db.sqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// DeductionDefault is the stored preset for one deduction kind under one
// scheme. Rate is a percentage, Amount an annual sum.
type DeductionDefault struct {
	Scheme  string          `db:"scheme"`
	Kind    string          `db:"kind"`
	Enabled bool            `db:"enabled"`
	Rate    decimal.Decimal `db:"rate"`
	Amount  decimal.Decimal `db:"amount"`
}

func (db *DB) FindDeductionDefaults(ctx context.Context, scheme string) ([]DeductionDefault, error) {
	var results []DeductionDefault

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT scheme, kind, enabled, rate, amount FROM deduction_defaults WHERE scheme = $1
		`, scheme)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d DeductionDefault

		err = rows.Scan(&d.Scheme, &d.Kind, &d.Enabled, &d.Rate, &d.Amount)
		if err != nil {
			return nil, err
		}

		results = append(results, d)
	}

	return results, rows.Err()
}

func (db *DB) UpsertDeductionDefault(ctx context.Context, d DeductionDefault) (DeductionDefault, error) {
	var result DeductionDefault

	err := db.GetSQLDB().QueryRowContext(
		ctx,
		`
			INSERT INTO deduction_defaults (scheme, kind, enabled, rate, amount)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (scheme, kind) DO UPDATE SET
				enabled = EXCLUDED.enabled,
				rate = EXCLUDED.rate,
				amount = EXCLUDED.amount
			RETURNING scheme, kind, enabled, rate, amount
		`, d.Scheme, d.Kind, d.Enabled, d.Rate, d.Amount,
	).Scan(&result.Scheme, &result.Kind, &result.Enabled, &result.Rate, &result.Amount)
	if err != nil {
		return DeductionDefault{}, err
	}

	return result, nil
}
