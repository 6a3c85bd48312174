package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s2_constituents"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
)

// BackfillResult reports one backfill run
type BackfillResult struct {
	Start          string
	End            string
	Dates          []string
	RebalanceDates []string
	LowCoverage    []string // dates where a track failed the coverage gate
	Ledger         []contracts.LedgerRow
	Duration       time.Duration
}

// Backfill computes every open date in [start, end] and merges the batch
// into the ledger with a full NAV recompute. The first failing date aborts
// the whole batch and the ledger is left untouched.
func (o *Orchestrator) Backfill(ctx context.Context, start, end string) (*BackfillResult, error) {
	began := time.Now()
	if start > end {
		return nil, fmt.Errorf("backfill start %s is after end %s", start, end)
	}

	dates, err := o.data.OpenDates(ctx, start, end)
	if err != nil {
		return nil, &contracts.UpstreamError{Op: "trade_cal", Date: start + "-" + end, Err: err}
	}
	result := &BackfillResult{Start: start, End: end, Dates: dates}
	if len(dates) == 0 {
		o.logger.WithFields(map[string]interface{}{
			"start": start,
			"end":   end,
		}).Warn("No open trading days in range")
		result.Duration = time.Since(began)
		return result, nil
	}

	rc, err := o.newRunContext()
	if err != nil {
		return nil, err
	}

	batch := make([]contracts.DailyReturns, 0, len(dates))
	var last *DayResult
	for i, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day, err := ComputeDay(ctx, rc, date)
		if err != nil {
			return nil, fmt.Errorf("backfill %s: %w", date, err)
		}
		batch = append(batch, day.Returns)
		last = day
		if !o.checkQuality(day).Passed() {
			result.LowCoverage = append(result.LowCoverage, date)
		}

		if day.NewRebalance {
			members := s2_constituents.Rows(day.Constituents)
			if err := o.publisher.PublishConstituents(day.RebalanceDate(), members); err != nil {
				return nil, err
			}
			o.mirrorConstituents(ctx, day.RebalanceDate(), members)
			result.RebalanceDates = append(result.RebalanceDates, day.RebalanceDate())
		}

		o.logger.WithFields(map[string]interface{}{
			"date":     date,
			"progress": fmt.Sprintf("%d/%d", i+1, len(dates)),
		}).Info("Backfilled date")
	}

	existing, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	merged := s4_ledger.Merge(existing, batch)
	if err := o.store.Save(merged); err != nil {
		return nil, err
	}
	o.mirrorRows(ctx, merged)
	result.Ledger = merged

	if err := o.publishAfterBackfill(merged, last); err != nil {
		return nil, err
	}

	result.Duration = time.Since(began)
	o.logger.WithFields(map[string]interface{}{
		"start":       start,
		"end":         end,
		"dates":       len(dates),
		"ledger_rows": len(merged),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Backfill completed")

	return result, nil
}

// publishAfterBackfill refreshes the summary when the batch reached the
// ledger's latest date, otherwise only the chart
func (o *Orchestrator) publishAfterBackfill(ledger []contracts.LedgerRow, last *DayResult) error {
	latest, ok := s4_ledger.Latest(ledger)
	if !ok {
		return nil
	}
	if last != nil && last.Date == latest.Date {
		return o.publisher.PublishSummary(latest, ledger, last.StrictStats, last.ExtendedStats, o.rulesHash)
	}
	return o.publisher.Redraw(ledger)
}
