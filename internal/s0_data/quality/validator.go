package quality

import (
	"sort"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// DefaultMinCoverage is the priced/total ratio below which a track is flagged
const DefaultMinCoverage = 0.9

// QualityGate checks pricing coverage of the constituent sets of one date
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinStrictCoverage   float64 `yaml:"min_strict_coverage"`
	MinExtendedCoverage float64 `yaml:"min_extended_coverage"`
}

// Snapshot is the gate's verdict for one date
type Snapshot struct {
	Date         string
	Coverage     map[contracts.Variant]float64
	QualityScore float64
	Below        []contracts.Variant // tracks under their threshold, strict first
}

// Passed reports whether every track met its threshold
func (s *Snapshot) Passed() bool {
	return len(s.Below) == 0
}

// NewQualityGate creates a gate; non-positive thresholds fall back to DefaultMinCoverage
func NewQualityGate(config Config) *QualityGate {
	if config.MinStrictCoverage <= 0 {
		config.MinStrictCoverage = DefaultMinCoverage
	}
	if config.MinExtendedCoverage <= 0 {
		config.MinExtendedCoverage = DefaultMinCoverage
	}
	return &QualityGate{config: config}
}

// Check computes per-track coverage and the weighted score.
// ⭐ SSOT: S0 → S3 가격 커버리지 검증
func (g *QualityGate) Check(date string, stats map[contracts.Variant]contracts.IndexStats) *Snapshot {
	snapshot := &Snapshot{
		Date:     date,
		Coverage: make(map[contracts.Variant]float64, len(stats)),
	}
	for v, s := range stats {
		snapshot.Coverage[v] = s.CoverageRate()
	}

	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)

	for v, cov := range snapshot.Coverage {
		if cov < g.threshold(v) {
			snapshot.Below = append(snapshot.Below, v)
		}
	}
	// strict before extended
	sort.Slice(snapshot.Below, func(i, j int) bool {
		return snapshot.Below[i] > snapshot.Below[j]
	})

	return snapshot
}

func (g *QualityGate) threshold(v contracts.Variant) float64 {
	if v == contracts.VariantExtended {
		return g.config.MinExtendedCoverage
	}
	return g.config.MinStrictCoverage
}

// calculateScore is the weighted mean coverage over the tracks present
func (g *QualityGate) calculateScore(coverage map[contracts.Variant]float64) float64 {
	// 가중치
	weights := map[contracts.Variant]float64{
		contracts.VariantStrict:   0.5,
		contracts.VariantExtended: 0.5,
	}

	score, total := 0.0, 0.0
	for v, weight := range weights {
		if cov, exists := coverage[v]; exists {
			score += cov * weight
			total += weight
		}
	}
	if total == 0 {
		return 0
	}
	return score / total
}
