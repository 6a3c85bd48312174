package contracts

// LedgerRow is one dated entry of the NAV ledger
// ⭐ SSOT: S4 NAV 원장 행
type LedgerRow struct {
	Date         string  `json:"date"` // YYYYMMDD
	StrictRet    float64 `json:"zoo_strict_ret"`
	ExtendedRet  float64 `json:"zoo_extended_ret"`
	BenchmarkRet float64 `json:"benchmark_ret"`
	StrictNAV    float64 `json:"zoo_strict_nav"`
	ExtendedNAV  float64 `json:"zoo_extended_nav"`
	BenchmarkNAV float64 `json:"benchmark_nav"`
}

// DailyReturns are the three daily returns recorded for one date
type DailyReturns struct {
	Date      string  `json:"date"`
	Strict    float64 `json:"strict"`
	Extended  float64 `json:"extended"`
	Benchmark float64 `json:"benchmark"`
}

// Returns extracts the return triple of a row
func (r LedgerRow) Returns() DailyReturns {
	return DailyReturns{
		Date:      r.Date,
		Strict:    r.StrictRet,
		Extended:  r.ExtendedRet,
		Benchmark: r.BenchmarkRet,
	}
}

// StrictExcess returns the strict track's daily excess over the benchmark
func (r LedgerRow) StrictExcess() float64 {
	return r.StrictRet - r.BenchmarkRet
}

// ExtendedExcess returns the extended track's daily excess over the benchmark
func (r LedgerRow) ExtendedExcess() float64 {
	return r.ExtendedRet - r.BenchmarkRet
}

// IsDate reports whether s has the YYYYMMDD shape used for all dates
func IsDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
