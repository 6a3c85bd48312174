package s4_ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

func ret(date string, s, e, b float64) contracts.DailyReturns {
	return contracts.DailyReturns{Date: date, Strict: s, Extended: e, Benchmark: b}
}

func assertChained(t *testing.T, rows []contracts.LedgerRow) {
	t.Helper()
	prev := contracts.LedgerRow{StrictNAV: 1, ExtendedNAV: 1, BenchmarkNAV: 1}
	for i, r := range rows {
		if i > 0 {
			require.Less(t, rows[i-1].Date, r.Date, "rows must be date-sorted")
		}
		assert.InDelta(t, r.StrictRet, r.StrictNAV/prev.StrictNAV-1, 1e-12, r.Date)
		assert.InDelta(t, r.ExtendedRet, r.ExtendedNAV/prev.ExtendedNAV-1, 1e-12, r.Date)
		assert.InDelta(t, r.BenchmarkRet, r.BenchmarkNAV/prev.BenchmarkNAV-1, 1e-12, r.Date)
		prev = r
	}
}

func TestUpsert_Bootstrap(t *testing.T) {
	rows, latest := Upsert(nil, ret("20240102", 0.01, 0.02, -0.01))

	require.Len(t, rows, 1)
	assert.Equal(t, latest, rows[0])
	assert.InDelta(t, 1.01, latest.StrictNAV, 1e-12)
	assert.InDelta(t, 1.02, latest.ExtendedNAV, 1e-12)
	assert.InDelta(t, 0.99, latest.BenchmarkNAV, 1e-12)
}

func TestUpsert_Idempotent(t *testing.T) {
	rows, _ := Upsert(nil, ret("20240102", 0.01, 0.02, -0.01))
	rows, _ = Upsert(rows, ret("20240103", 0.03, 0.01, 0.02))

	again, latest := Upsert(rows, ret("20240103", 0.03, 0.01, 0.02))

	assert.Len(t, again, 2)
	assert.Equal(t, rows, again)
	assert.Equal(t, rows[1], latest)
}

func TestUpsert_ReplacesRow(t *testing.T) {
	rows, _ := Upsert(nil, ret("20240102", 0.01, 0.01, 0.01))
	rows, _ = Upsert(rows, ret("20240103", 0.05, 0.05, 0.05))

	rows, latest := Upsert(rows, ret("20240103", -0.02, 0.0, 0.01))

	require.Len(t, rows, 2)
	assert.InDelta(t, 1.01*0.98, latest.StrictNAV, 1e-12)
	assert.InDelta(t, 1.01, latest.ExtendedNAV, 1e-12)
}

func TestUpsert_ChainsFromChronologicalPredecessor(t *testing.T) {
	rows := Recompute([]contracts.DailyReturns{
		ret("20240102", 0.10, 0.10, 0.10),
		ret("20240104", 0.20, 0.20, 0.20),
	})

	rows, row := Upsert(rows, ret("20240103", 0.5, 0.5, 0.5))

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"20240102", "20240103", "20240104"}, []string{rows[0].Date, rows[1].Date, rows[2].Date})
	assert.InDelta(t, 1.1*1.5, row.StrictNAV, 1e-12, "predecessor is 20240102, not the physically last row")
	assert.InDelta(t, 1.1*1.2, rows[2].StrictNAV, 1e-12, "later rows are not recomputed")
}

func TestUpsert_DoesNotMutateInput(t *testing.T) {
	in := Recompute([]contracts.DailyReturns{ret("20240103", 0.1, 0.1, 0.1), ret("20240102", 0.1, 0.1, 0.1)})
	before := append([]contracts.LedgerRow(nil), in...)

	Upsert(in, ret("20240102", 0.2, 0.2, 0.2))

	assert.Equal(t, before, in)
}

func TestMerge_LastWinsAndRecomputes(t *testing.T) {
	existing := Recompute([]contracts.DailyReturns{
		ret("20240102", 0.01, 0.01, 0.01),
		ret("20240103", 0.02, 0.02, 0.02),
		ret("20240105", 0.03, 0.03, 0.03),
	})

	merged := Merge(existing, []contracts.DailyReturns{
		ret("20240104", 0.04, 0.04, 0.04),
		ret("20240103", -0.01, -0.01, -0.01),
		ret("20240103", -0.05, -0.05, -0.05),
	})

	require.Len(t, merged, 4)
	row, ok := Find(merged, "20240103")
	require.True(t, ok)
	assert.Equal(t, -0.05, row.StrictRet, "newest computation wins")

	last, _ := Latest(merged)
	assert.Equal(t, "20240105", last.Date)
	assert.InDelta(t, 1.01*0.95*1.04*1.03, last.StrictNAV, 1e-12)
	assertChained(t, merged)
}

func TestMerge_IntoEmpty(t *testing.T) {
	merged := Merge(nil, []contracts.DailyReturns{ret("20240103", 0.1, 0, 0), ret("20240102", 0.2, 0, 0)})

	require.Len(t, merged, 2)
	assert.Equal(t, "20240102", merged[0].Date)
	assertChained(t, merged)
}

func TestLatest_Empty(t *testing.T) {
	_, ok := Latest(nil)
	assert.False(t, ok)
}
