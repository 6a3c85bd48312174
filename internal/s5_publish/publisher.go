package s5_publish

import (
	"fmt"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// Publisher emits every derived artifact of a run
type Publisher struct {
	layout         Layout
	benchmarkLabel string
	adjusted       bool
	logger         *logger.Logger
}

// NewPublisher creates a publisher writing under layout
func NewPublisher(layout Layout, benchmarkLabel string, adjusted bool, log *logger.Logger) *Publisher {
	return &Publisher{
		layout:         layout,
		benchmarkLabel: benchmarkLabel,
		adjusted:       adjusted,
		logger:         log,
	}
}

// Layout returns the output locations
func (p *Publisher) Layout() Layout {
	return p.layout
}

// Day carries what a completed daily computation publishes
type Day struct {
	Date          string
	Strict        []contracts.Holding
	Extended      []contracts.Holding
	StrictStats   contracts.IndexStats
	ExtendedStats contracts.IndexStats
	Constituents  []contracts.VariantRow // both tracks, priced or not
	Ledger        []contracts.LedgerRow
	Row           contracts.LedgerRow
	RulesHash     string
}

// PublishDay writes the holdings snapshot, change report and docs artifacts
func (p *Publisher) PublishDay(d Day) (ChangeReport, error) {
	if err := p.layout.EnsureDirs(); err != nil {
		return ChangeReport{}, err
	}

	// look up the previous snapshot before today's is written
	prevPath, found, err := p.layout.PreviousHoldings(d.Date)
	if err != nil {
		return ChangeReport{}, err
	}
	var previous []contracts.VariantRow
	if found {
		if previous, err = ReadMembership(prevPath); err != nil {
			return ChangeReport{}, fmt.Errorf("read previous holdings: %w", err)
		}
	}

	if err := WriteHoldings(p.layout.HoldingsPath(d.Date), d.Strict, d.Extended); err != nil {
		return ChangeReport{}, err
	}

	report := NewChangeReport(d.Date, MembershipFromHoldings(d.Strict, d.Extended), previous, d.Constituents)
	if err := WriteChanges(p.layout.ChangesPath(d.Date), report); err != nil {
		return ChangeReport{}, err
	}

	if err := p.PublishSummary(d.Row, d.Ledger, d.StrictStats, d.ExtendedStats, d.RulesHash); err != nil {
		return ChangeReport{}, err
	}

	p.logger.WithFields(map[string]interface{}{
		"date":             d.Date,
		"previous":         prevPath,
		"strict_new":       len(report.Changes[contracts.VariantStrict].NewIn),
		"strict_removed":   len(report.Changes[contracts.VariantStrict].Removed),
		"extended_new":     len(report.Changes[contracts.VariantExtended].NewIn),
		"extended_removed": len(report.Changes[contracts.VariantExtended].Removed),
	}).Info("Published daily artifacts")

	return report, nil
}

// PublishSummary writes latest.json, badges, chart and page for a ledger row
func (p *Publisher) PublishSummary(row contracts.LedgerRow, ledger []contracts.LedgerRow, strict, extended contracts.IndexStats, rulesHash string) error {
	if err := p.layout.EnsureDirs(); err != nil {
		return err
	}
	if err := WriteLatest(p.layout.LatestPath(), NewLatest(row, p.benchmarkLabel, rulesHash)); err != nil {
		return err
	}
	if err := WriteBadges(p.layout.BadgesDir(), row, p.benchmarkLabel); err != nil {
		return err
	}
	if err := WriteChart(p.layout.ChartPath(), ledger, p.benchmarkLabel); err != nil {
		return err
	}
	return WritePage(p.layout.IndexPath(), Page{
		Row:            row,
		Strict:         strict,
		Extended:       extended,
		BenchmarkLabel: p.benchmarkLabel,
		Adjusted:       p.adjusted,
	})
}

// PublishConstituents writes the constituent snapshot of a rebalance date
func (p *Publisher) PublishConstituents(date string, rows []contracts.VariantRow) error {
	if err := WriteConstituents(p.layout.ConstituentsPath(date), rows); err != nil {
		return err
	}
	p.logger.WithFields(map[string]interface{}{
		"date": date,
		"rows": len(rows),
	}).Debug("Wrote constituents snapshot")
	return nil
}

// Redraw regenerates the chart from the ledger
func (p *Publisher) Redraw(ledger []contracts.LedgerRow) error {
	if len(ledger) == 0 {
		p.logger.Warn("Ledger is empty, chart not drawn")
		return nil
	}
	if err := WriteChart(p.layout.ChartPath(), ledger, p.benchmarkLabel); err != nil {
		return err
	}
	p.logger.WithFields(map[string]interface{}{
		"rows": len(ledger),
		"path": p.layout.ChartPath(),
	}).Info("Chart redrawn")
	return nil
}
