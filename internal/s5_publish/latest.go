package s5_publish

import (
	"github.com/shopspring/decimal"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// latestPlaces is the rounding applied to published figures
const latestPlaces = 6

// Latest is the docs/latest.json payload
type Latest struct {
	Date           string  `json:"date"`
	Benchmark      string  `json:"benchmark"`
	StrictNAV      float64 `json:"zoo_strict_nav"`
	ExtendedNAV    float64 `json:"zoo_extended_nav"`
	BenchmarkNAV   float64 `json:"benchmark_nav"`
	StrictDaily    float64 `json:"zoo_strict_daily"`
	ExtendedDaily  float64 `json:"zoo_extended_daily"`
	BenchmarkDaily float64 `json:"benchmark_daily"`
	StrictExcess   float64 `json:"zoo_strict_excess"`
	ExtendedExcess float64 `json:"zoo_extended_excess"`
	RulesHash      string  `json:"rules_hash,omitempty"`
}

// NewLatest rounds a ledger row for publication
func NewLatest(row contracts.LedgerRow, benchmarkLabel, rulesHash string) Latest {
	return Latest{
		Date:           row.Date,
		Benchmark:      benchmarkLabel,
		StrictNAV:      round(row.StrictNAV),
		ExtendedNAV:    round(row.ExtendedNAV),
		BenchmarkNAV:   round(row.BenchmarkNAV),
		StrictDaily:    round(row.StrictRet),
		ExtendedDaily:  round(row.ExtendedRet),
		BenchmarkDaily: round(row.BenchmarkRet),
		StrictExcess:   roundDiff(row.StrictRet, row.BenchmarkRet),
		ExtendedExcess: roundDiff(row.ExtendedRet, row.BenchmarkRet),
		RulesHash:      rulesHash,
	}
}

// WriteLatest writes latest.json
func WriteLatest(path string, latest Latest) error {
	return writeJSON(path, latest)
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(latestPlaces).InexactFloat64()
}

// excess is rounded once, after subtraction
func roundDiff(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(latestPlaces).InexactFloat64()
}
