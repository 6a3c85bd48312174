package brain

import (
	"context"
	"fmt"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s3_returns"
)

// DayResult is everything computed for one trading date
type DayResult struct {
	Date          string
	PrevDate      string
	Constituents  *contracts.ConstituentSet
	NewRebalance  bool
	Strict        []contracts.Holding
	Extended      []contracts.Holding
	StrictStats   contracts.IndexStats
	ExtendedStats contracts.IndexStats
	Returns       contracts.DailyReturns
}

// RebalanceDate is the snapshot date of the constituents used
func (d *DayResult) RebalanceDate() string {
	return d.Constituents.Date
}

// ComputeDay runs universe → constituents → prices → returns → benchmark for
// one open trading date. Daily and backfill runs share it.
func ComputeDay(ctx context.Context, rc *RunContext, date string) (*DayResult, error) {
	td, err := rc.data.TradeDay(ctx, date)
	if err != nil {
		return nil, &contracts.UpstreamError{Op: "trade_cal", Date: date, Err: err}
	}
	if !td.IsOpen {
		return nil, &contracts.DataQualityError{Date: date, Field: "trade_cal", Message: "not an open trading day"}
	}
	if td.PreTradeDate == "" {
		return nil, &contracts.DataQualityError{Date: date, Field: "pretrade_date", Message: "previous trading day is unknown"}
	}

	set, fresh, err := rc.Constituents(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, v := range contracts.Variants {
		if len(set.Get(v)) == 0 {
			return nil, &contracts.DataQualityError{
				Date:    set.Date,
				Field:   "constituents",
				Message: fmt.Sprintf("%s constituent set is empty, check rules and listing", v),
			}
		}
	}

	daily, err := rc.data.DailyPrices(ctx, date)
	if err != nil {
		return nil, &contracts.UpstreamError{Op: "daily", Date: date, Err: err}
	}
	if len(daily) == 0 {
		return nil, &contracts.DataQualityError{Date: date, Field: "daily", Message: "daily price table is empty"}
	}
	prices := contracts.PriceIndex(daily)

	var factors *s3_returns.Factors
	if rc.adjusted || rc.benchmark.Mode.NeedsAdjFactors() {
		if factors, err = rc.loadFactors(ctx, date, td.PreTradeDate); err != nil {
			return nil, err
		}
	}
	// unadjusted constituents may still need the tables for a stock benchmark
	constituentFactors := factors
	if !rc.adjusted {
		constituentFactors = nil
	}

	result := &DayResult{
		Date:         date,
		PrevDate:     td.PreTradeDate,
		Constituents: set,
		NewRebalance: fresh,
	}

	strictRet, strict, strictStats := s3_returns.ComputeEqualWeightReturn(set.Strict, prices, constituentFactors)
	extendedRet, extended, extendedStats := s3_returns.ComputeEqualWeightReturn(set.Extended, prices, constituentFactors)
	if err := requirePriced(date, contracts.VariantStrict, strictStats); err != nil {
		return nil, err
	}
	if err := requirePriced(date, contracts.VariantExtended, extendedStats); err != nil {
		return nil, err
	}

	benchRet, err := rc.benchmark.Return(ctx, rc.data, s3_returns.Input{
		Date:     date,
		PrevDate: td.PreTradeDate,
		Daily:    prices,
		Factors:  factors,
	})
	if err != nil {
		return nil, err
	}

	result.Strict = strict
	result.Extended = extended
	result.StrictStats = strictStats
	result.ExtendedStats = extendedStats
	result.Returns = contracts.DailyReturns{
		Date:      date,
		Strict:    strictRet,
		Extended:  extendedRet,
		Benchmark: benchRet,
	}

	rc.logger.WithFields(map[string]interface{}{
		"date":            date,
		"rebalance_date":  set.Date,
		"strict_ret":      strictRet,
		"extended_ret":    extendedRet,
		"benchmark_ret":   benchRet,
		"strict_priced":   fmt.Sprintf("%d/%d", strictStats.Priced, strictStats.Total),
		"extended_priced": fmt.Sprintf("%d/%d", extendedStats.Priced, extendedStats.Total),
	}).Debug("Computed day")

	return result, nil
}

func (rc *RunContext) loadFactors(ctx context.Context, date, prevDate string) (*s3_returns.Factors, error) {
	current, err := rc.factorTable(ctx, date)
	if err != nil {
		return nil, err
	}
	previous, err := rc.factorTable(ctx, prevDate)
	if err != nil {
		return nil, err
	}
	return &s3_returns.Factors{Current: current, Previous: previous}, nil
}

func requirePriced(date string, v contracts.Variant, stats contracts.IndexStats) error {
	if stats.Priced > 0 {
		return nil
	}
	return &contracts.DataQualityError{
		Date:    date,
		Field:   "daily",
		Message: fmt.Sprintf("no priced %s constituents (%d total)", v, stats.Total),
	}
}
