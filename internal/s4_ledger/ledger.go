package s4_ledger

import (
	"sort"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// baseNAV is the NAV of every track before the first row
const baseNAV = 1.0

// Upsert replaces or inserts the row for ret.Date and returns the new series with that row.
// Only the upserted row's NAV is computed: it chains from the chronologically
// preceding row of the re-sorted series, or from 1.0 when there is none.
// ⭐ SSOT: S4 NAV 원장 단일 날짜 갱신
func Upsert(rows []contracts.LedgerRow, ret contracts.DailyReturns) ([]contracts.LedgerRow, contracts.LedgerRow) {
	series := make([]contracts.LedgerRow, 0, len(rows)+1)
	for _, r := range rows {
		if r.Date != ret.Date {
			series = append(series, r)
		}
	}
	sortByDate(series)

	// 삽입 위치 = 직전 영업일 행 다음
	i := sort.Search(len(series), func(i int) bool { return series[i].Date > ret.Date })

	prev := contracts.LedgerRow{StrictNAV: baseNAV, ExtendedNAV: baseNAV, BenchmarkNAV: baseNAV}
	if i > 0 {
		prev = series[i-1]
	}
	row := chain(prev, ret)

	series = append(series, contracts.LedgerRow{})
	copy(series[i+1:], series[i:])
	series[i] = row

	return series, row
}

// Merge folds a backfill batch into the series. Duplicate dates keep the newest
// computation (batch over existing, later batch entries over earlier ones), then
// every NAV is rebuilt as a cumulative product over the merged, date-sorted returns.
// ⭐ SSOT: S4 백필 병합
func Merge(rows []contracts.LedgerRow, batch []contracts.DailyReturns) []contracts.LedgerRow {
	byDate := make(map[string]contracts.DailyReturns, len(rows)+len(batch))
	for _, r := range rows {
		byDate[r.Date] = r.Returns()
	}
	for _, r := range batch {
		byDate[r.Date] = r
	}

	returns := make([]contracts.DailyReturns, 0, len(byDate))
	for _, r := range byDate {
		returns = append(returns, r)
	}
	sort.Slice(returns, func(i, j int) bool { return returns[i].Date < returns[j].Date })

	return Recompute(returns)
}

// Recompute builds NAV rows from date-sorted returns starting at 1.0
func Recompute(returns []contracts.DailyReturns) []contracts.LedgerRow {
	series := make([]contracts.LedgerRow, 0, len(returns))
	prev := contracts.LedgerRow{StrictNAV: baseNAV, ExtendedNAV: baseNAV, BenchmarkNAV: baseNAV}
	for _, r := range returns {
		row := chain(prev, r)
		series = append(series, row)
		prev = row
	}
	return series
}

// Latest returns the chronologically last row
func Latest(rows []contracts.LedgerRow) (contracts.LedgerRow, bool) {
	if len(rows) == 0 {
		return contracts.LedgerRow{}, false
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if r.Date > latest.Date {
			latest = r
		}
	}
	return latest, true
}

// Find returns the row of a date
func Find(rows []contracts.LedgerRow, date string) (contracts.LedgerRow, bool) {
	for _, r := range rows {
		if r.Date == date {
			return r, true
		}
	}
	return contracts.LedgerRow{}, false
}

func chain(prev contracts.LedgerRow, ret contracts.DailyReturns) contracts.LedgerRow {
	return contracts.LedgerRow{
		Date:         ret.Date,
		StrictRet:    ret.Strict,
		ExtendedRet:  ret.Extended,
		BenchmarkRet: ret.Benchmark,
		StrictNAV:    prev.StrictNAV * (1 + ret.Strict),
		ExtendedNAV:  prev.ExtendedNAV * (1 + ret.Extended),
		BenchmarkNAV: prev.BenchmarkNAV * (1 + ret.Benchmark),
	}
}

func sortByDate(rows []contracts.LedgerRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
}
