package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s0_data/quality"
	"github.com/runchengxie/a-share-animal-index/internal/s2_constituents"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
)

// Outcome is the terminal state of a daily run
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeSkipped  Outcome = "skipped"  // non-trading day
	OutcomeRejected Outcome = "rejected" // date precedes the ledger's latest row
)

// DailyResult reports one daily run
type DailyResult struct {
	Outcome  Outcome
	Date     string
	Row      contracts.LedgerRow
	Day      *DayResult
	Changes  s5_publish.ChangeReport
	Quality  *quality.Snapshot
	Duration time.Duration
}

// RunDaily computes date, upserts the ledger and publishes artifacts.
//
// Non-trading days are skipped with a nil error. A date earlier than the
// ledger's latest row is rejected with ErrDateRejected; re-running the latest
// date replaces its row.
func (o *Orchestrator) RunDaily(ctx context.Context, date string) (*DailyResult, error) {
	start := time.Now()
	result := &DailyResult{Date: date}

	td, err := o.data.TradeDay(ctx, date)
	if err != nil {
		return nil, &contracts.UpstreamError{Op: "trade_cal", Date: date, Err: err}
	}
	if !td.IsOpen {
		result.Outcome = OutcomeSkipped
		result.Duration = time.Since(start)
		o.logger.WithField("date", date).Info("Not a trading day, skipped")
		return result, nil
	}

	rows, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	if latest, ok := s4_ledger.Latest(rows); ok && date < latest.Date {
		result.Outcome = OutcomeRejected
		result.Duration = time.Since(start)
		return result, fmt.Errorf("%s before ledger latest %s: %w", date, latest.Date, contracts.ErrDateRejected)
	}

	rc, err := o.newRunContext()
	if err != nil {
		return nil, err
	}
	day, err := ComputeDay(ctx, rc, date)
	if err != nil {
		return nil, err
	}
	result.Quality = o.checkQuality(day)

	rows, row := s4_ledger.Upsert(rows, day.Returns)
	if err := o.store.Save(rows); err != nil {
		return nil, err
	}

	members := s2_constituents.Rows(day.Constituents)
	if err := o.publisher.PublishConstituents(day.RebalanceDate(), members); err != nil {
		return nil, err
	}

	changes, err := o.publisher.PublishDay(s5_publish.Day{
		Date:          date,
		Strict:        day.Strict,
		Extended:      day.Extended,
		StrictStats:   day.StrictStats,
		ExtendedStats: day.ExtendedStats,
		Constituents:  members,
		Ledger:        rows,
		Row:           row,
		RulesHash:     o.rulesHash,
	})
	if err != nil {
		return nil, err
	}

	o.mirrorRows(ctx, []contracts.LedgerRow{row})
	o.mirrorConstituents(ctx, day.RebalanceDate(), members)

	result.Outcome = OutcomeSuccess
	result.Row = row
	result.Day = day
	result.Changes = changes
	result.Duration = time.Since(start)

	o.logger.WithFields(map[string]interface{}{
		"date":             date,
		"zoo_strict_nav":   row.StrictNAV,
		"zoo_extended_nav": row.ExtendedNAV,
		"benchmark_nav":    row.BenchmarkNAV,
		"duration_ms":      result.Duration.Milliseconds(),
	}).Info("Daily run completed")

	return result, nil
}
