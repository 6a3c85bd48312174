package s4_ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Repository mirrors the ledger and constituent snapshots into Postgres.
// The CSV store stays the source of truth; the mirror is for querying.
// ⭐ SSOT: 원장 DB 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new ledger repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS zoo;

	CREATE TABLE IF NOT EXISTS zoo.nav_ledger (
		date             CHAR(8) PRIMARY KEY,
		zoo_strict_ret   DOUBLE PRECISION NOT NULL,
		zoo_extended_ret DOUBLE PRECISION NOT NULL,
		benchmark_ret    DOUBLE PRECISION NOT NULL,
		zoo_strict_nav   DOUBLE PRECISION NOT NULL,
		zoo_extended_nav DOUBLE PRECISION NOT NULL,
		benchmark_nav    DOUBLE PRECISION NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS zoo.constituents (
		snapshot_date CHAR(8) NOT NULL,
		variant       TEXT NOT NULL,
		ts_code       TEXT NOT NULL,
		name          TEXT NOT NULL,
		keyword       TEXT NOT NULL,
		forced        BOOLEAN NOT NULL,
		PRIMARY KEY (snapshot_date, variant, ts_code)
	);
`

// EnsureSchema creates the mirror tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// SaveLedger upserts ledger rows (bulk)
func (r *Repository) SaveLedger(ctx context.Context, rows []contracts.LedgerRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO zoo.nav_ledger (
			date, zoo_strict_ret, zoo_extended_ret, benchmark_ret,
			zoo_strict_nav, zoo_extended_nav, benchmark_nav, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (date) DO UPDATE SET
			zoo_strict_ret = EXCLUDED.zoo_strict_ret,
			zoo_extended_ret = EXCLUDED.zoo_extended_ret,
			benchmark_ret = EXCLUDED.benchmark_ret,
			zoo_strict_nav = EXCLUDED.zoo_strict_nav,
			zoo_extended_nav = EXCLUDED.zoo_extended_nav,
			benchmark_nav = EXCLUDED.benchmark_nav,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row.Date,
			row.StrictRet, row.ExtendedRet, row.BenchmarkRet,
			row.StrictNAV, row.ExtendedNAV, row.BenchmarkNAV)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, row := range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert ledger row %s: %w", row.Date, err)
		}
	}

	return nil
}

// LoadLedger retrieves the full ledger ordered by date
func (r *Repository) LoadLedger(ctx context.Context) ([]contracts.LedgerRow, error) {
	query := `
		SELECT date, zoo_strict_ret, zoo_extended_ret, benchmark_ret,
		       zoo_strict_nav, zoo_extended_nav, benchmark_nav
		FROM zoo.nav_ledger
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	result := make([]contracts.LedgerRow, 0)
	for rows.Next() {
		var row contracts.LedgerRow
		if err := rows.Scan(
			&row.Date, &row.StrictRet, &row.ExtendedRet, &row.BenchmarkRet,
			&row.StrictNAV, &row.ExtendedNAV, &row.BenchmarkNAV,
		); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		result = append(result, row)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate ledger: %w", rows.Err())
	}

	return result, nil
}

// SaveConstituents replaces the constituent snapshot of one date
func (r *Repository) SaveConstituents(ctx context.Context, date string, constituents []contracts.VariantRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM zoo.constituents WHERE snapshot_date = $1`, date); err != nil {
		return fmt.Errorf("clear constituents %s: %w", date, err)
	}

	query := `
		INSERT INTO zoo.constituents (snapshot_date, variant, ts_code, name, keyword, forced)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, c := range constituents {
		if _, err := tx.Exec(ctx, query, date, string(c.Variant), c.Code, c.Name, c.Keyword, c.Forced); err != nil {
			return fmt.Errorf("insert constituent %s: %w", c.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
