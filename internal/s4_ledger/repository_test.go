package s4_ledger

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "database connection failed")
	defer pool.Close()

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	rows := Recompute([]contracts.DailyReturns{
		ret("19000102", 0.01, 0.02, 0.03),
		ret("19000103", -0.01, 0.0, 0.01),
	})
	require.NoError(t, repo.SaveLedger(ctx, rows))
	require.NoError(t, repo.SaveLedger(ctx, rows), "upsert is idempotent")

	loaded, err := repo.LoadLedger(ctx)
	require.NoError(t, err)

	got := make(map[string]contracts.LedgerRow)
	for _, r := range loaded {
		got[r.Date] = r
	}
	for _, r := range rows {
		assert.InDelta(t, r.StrictNAV, got[r.Date].StrictNAV, 1e-12)
	}

	require.NoError(t, repo.SaveConstituents(ctx, "19000102", []contracts.VariantRow{
		{Code: "000001.SZ", Name: "龙马环卫", Keyword: "马", Variant: contracts.VariantStrict},
	}))

	_, err = pool.Exec(ctx, `DELETE FROM zoo.nav_ledger WHERE date LIKE '1900%'`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM zoo.constituents WHERE snapshot_date LIKE '1900%'`)
	require.NoError(t, err)
}
