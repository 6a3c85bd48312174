package brain

import (
	"context"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s0_data/quality"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// LedgerMirror receives copies of ledger rows and constituent snapshots.
// *s4_ledger.Repository satisfies it.
type LedgerMirror interface {
	SaveLedger(ctx context.Context, rows []contracts.LedgerRow) error
	SaveConstituents(ctx context.Context, date string, rows []contracts.VariantRow) error
}

// Orchestrator drives daily and backfill runs over the ledger
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	data      contracts.MarketData
	settings  Settings
	rulesHash string

	store     *s4_ledger.Store
	publisher *s5_publish.Publisher
	mirror    LedgerMirror // optional
	gate      *quality.QualityGate

	logger *logger.Logger
}

// NewOrchestrator creates an orchestrator. mirror may be nil.
func NewOrchestrator(
	data contracts.MarketData,
	settings Settings,
	rulesHash string,
	store *s4_ledger.Store,
	publisher *s5_publish.Publisher,
	mirror LedgerMirror,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		data:      data,
		settings:  settings,
		rulesHash: rulesHash,
		store:     store,
		publisher: publisher,
		mirror:    mirror,
		gate: quality.NewQualityGate(quality.Config{
			MinStrictCoverage:   settings.MinCoverage,
			MinExtendedCoverage: settings.MinCoverage,
		}),
		logger: logger,
	}
}

func (o *Orchestrator) newRunContext() (*RunContext, error) {
	return NewRunContext(o.data, o.settings, o.logger)
}

// mirrorRows copies rows to the mirror; failures are logged, the CSV ledger stays authoritative
func (o *Orchestrator) mirrorRows(ctx context.Context, rows []contracts.LedgerRow) {
	if o.mirror == nil || len(rows) == 0 {
		return
	}
	if err := o.mirror.SaveLedger(ctx, rows); err != nil {
		o.logger.WithError(err).Warn("Failed to mirror ledger rows")
	}
}

func (o *Orchestrator) mirrorConstituents(ctx context.Context, date string, rows []contracts.VariantRow) {
	if o.mirror == nil {
		return
	}
	if err := o.mirror.SaveConstituents(ctx, date, rows); err != nil {
		o.logger.WithError(err).WithField("date", date).Warn("Failed to mirror constituents")
	}
}

// checkQuality runs the coverage gate on a computed day and warns on thin tracks
func (o *Orchestrator) checkQuality(day *DayResult) *quality.Snapshot {
	snapshot := o.gate.Check(day.Date, map[contracts.Variant]contracts.IndexStats{
		contracts.VariantStrict:   day.StrictStats,
		contracts.VariantExtended: day.ExtendedStats,
	})
	for _, v := range snapshot.Below {
		o.logger.WithFields(map[string]interface{}{
			"date":     day.Date,
			"variant":  string(v),
			"coverage": snapshot.Coverage[v],
		}).Warn("Low price coverage")
	}
	return snapshot
}
