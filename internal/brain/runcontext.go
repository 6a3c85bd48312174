package brain

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
	"github.com/runchengxie/a-share-animal-index/internal/s1_universe"
	"github.com/runchengxie/a-share-animal-index/internal/s2_constituents"
	"github.com/runchengxie/a-share-animal-index/internal/s3_returns"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// factorCacheSize bounds the date → adj_factor tables kept per run
const factorCacheSize = 64

// Settings are the per-run computation parameters
type Settings struct {
	Rules        *rules.Rules
	Benchmark    s3_returns.Benchmark
	UseAdjFactor bool
	MinCoverage  float64 // per-track priced/total warning threshold; 0 = default
}

// RunContext owns every cache of one run: the listing snapshots, the
// rebalance schedule, the constituent sets and the adj_factor tables.
// Create one per run; it is not safe for concurrent use.
// ⭐ SSOT: 실행 단위 캐시는 여기서만
type RunContext struct {
	data      contracts.MarketData
	universe  *s1_universe.Builder
	builder   *s2_constituents.Builder
	schedule  *s1_universe.Schedule
	benchmark s3_returns.Benchmark
	adjusted  bool

	listingLoaded bool
	securities    []contracts.Security
	nameChanges   []contracts.NameChange

	sets    map[string]*contracts.ConstituentSet // rebalance date → set
	factors *lru.Cache[string, map[string]float64]

	logger *logger.Logger
}

// NewRunContext creates an empty run context
func NewRunContext(data contracts.MarketData, settings Settings, log *logger.Logger) (*RunContext, error) {
	if settings.Rules == nil {
		return nil, fmt.Errorf("run context: rules are required")
	}
	factors, err := lru.New[string, map[string]float64](factorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create factor cache: %w", err)
	}

	return &RunContext{
		data:      data,
		universe:  s1_universe.NewBuilder(s1_universe.ConfigFromRules(settings.Rules)),
		builder:   s2_constituents.NewBuilder(s2_constituents.NewMatcher(settings.Rules)),
		schedule:  s1_universe.NewSchedule(data),
		benchmark: settings.Benchmark,
		adjusted:  settings.UseAdjFactor,
		sets:      make(map[string]*contracts.ConstituentSet),
		factors:   factors,
		logger:    log,
	}, nil
}

// Constituents returns the constituent set in force on date, building it on
// the first request for its rebalance date. fresh is true when it was built.
func (rc *RunContext) Constituents(ctx context.Context, date string) (set *contracts.ConstituentSet, fresh bool, err error) {
	rebalance, err := rc.schedule.RebalanceDate(ctx, date)
	if err != nil {
		return nil, false, err
	}
	if set, ok := rc.sets[rebalance]; ok {
		return set, false, nil
	}

	securities, changes, err := rc.listing(ctx)
	if err != nil {
		return nil, false, err
	}

	universe := rc.universe.PrepareUniverseAsOf(securities, changes, rebalance)
	set = rc.builder.Build(rebalance, universe)
	rc.sets[rebalance] = set

	rc.logger.WithFields(map[string]interface{}{
		"rebalance_date": rebalance,
		"universe":       universe.Count(),
		"excluded":       len(universe.Excluded),
		"strict":         len(set.Strict),
		"extended":       len(set.Extended),
	}).Info("Built constituent set")

	return set, true, nil
}

// listing fetches the security listing and name history once per run
func (rc *RunContext) listing(ctx context.Context) ([]contracts.Security, []contracts.NameChange, error) {
	if rc.listingLoaded {
		return rc.securities, rc.nameChanges, nil
	}

	securities, err := rc.data.Securities(ctx)
	if err != nil {
		return nil, nil, &contracts.UpstreamError{Op: "stock_basic", Err: err}
	}
	changes, err := rc.data.NameChanges(ctx)
	if err != nil {
		return nil, nil, &contracts.UpstreamError{Op: "namechange", Err: err}
	}

	rc.securities = securities
	rc.nameChanges = changes
	rc.listingLoaded = true

	rc.logger.WithFields(map[string]interface{}{
		"securities":   len(securities),
		"name_changes": len(changes),
	}).Debug("Loaded listing snapshot")

	return securities, changes, nil
}

// factorTable returns the positive adj_factor values of date
func (rc *RunContext) factorTable(ctx context.Context, date string) (map[string]float64, error) {
	if idx, ok := rc.factors.Get(date); ok {
		return idx, nil
	}

	rows, err := rc.data.AdjFactors(ctx, date)
	if err != nil {
		return nil, &contracts.UpstreamError{Op: "adj_factor", Date: date, Err: err}
	}
	idx := contracts.FactorIndex(rows)
	if len(idx) == 0 {
		return nil, &contracts.DataQualityError{Date: date, Field: "adj_factor", Message: "adjustment factor table is empty"}
	}

	rc.factors.Add(date, idx)
	return idx, nil
}

// CachedSets returns the number of memoized constituent sets
func (rc *RunContext) CachedSets() int {
	return len(rc.sets)
}

// CachedFactorDates returns the number of adj_factor tables held
func (rc *RunContext) CachedFactorDates() int {
	return rc.factors.Len()
}
