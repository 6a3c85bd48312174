package s1_universe

import (
	"fmt"
	"strings"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
)

// stMarker flags special-treatment names (ST, *ST, SST ...)
const stMarker = "ST"

// Builder constructs the eligible universe for classification
type Builder struct {
	config Config
}

// Config holds universe filter criteria
type Config struct {
	ExcludeST    bool `yaml:"exclude_st"`    // ST 종목 제외
	AllowBeijing bool `yaml:"allow_beijing"` // 북교소 허용
}

// ConfigFromRules takes the filter flags of a rule set
func ConfigFromRules(r *rules.Rules) Config {
	return Config{
		ExcludeST:    r.ExcludeST,
		AllowBeijing: r.AllowBeijing,
	}
}

// NewBuilder creates a new Universe Builder
func NewBuilder(config Config) *Builder {
	return &Builder{config: config}
}

// PrepareUniverse filters the current listing by exchange and ST marker
// ⭐ SSOT: S1 → S2 유니버스 생성
func (b *Builder) PrepareUniverse(securities []contracts.Security) *contracts.Universe {
	universe := &contracts.Universe{
		Securities: make([]contracts.Security, 0, len(securities)),
		Excluded:   make(map[string]string),
	}

	for _, sec := range securities {
		if reason := b.checkExclusion(sec); reason != "" {
			universe.Excluded[sec.Code] = reason
			continue
		}
		universe.Securities = append(universe.Securities, sec)
	}

	return universe
}

// PrepareUniverseAsOf rebuilds the universe as it stood on asOf.
// Securities outside their listing window are dropped, then each remaining
// name is replaced by the historical name in effect on asOf before filtering.
func (b *Builder) PrepareUniverseAsOf(securities []contracts.Security, changes []contracts.NameChange, asOf string) *contracts.Universe {
	names := NamesAsOf(changes, asOf)

	universe := &contracts.Universe{
		AsOf:       asOf,
		Securities: make([]contracts.Security, 0, len(securities)),
		Excluded:   make(map[string]string),
	}

	for _, sec := range securities {
		if !sec.ListedOn(asOf) {
			universe.Excluded[sec.Code] = fmt.Sprintf("not listed on %s", asOf)
			continue
		}
		if name, ok := names[sec.Code]; ok {
			sec.Name = name
		}
		if reason := b.checkExclusion(sec); reason != "" {
			universe.Excluded[sec.Code] = reason
			continue
		}
		universe.Securities = append(universe.Securities, sec)
	}

	return universe
}

// NamesAsOf resolves, per code, the name whose [start, end] interval contains date.
// When several records match, the latest start date wins; equal starts keep the later record.
func NamesAsOf(changes []contracts.NameChange, date string) map[string]string {
	type pick struct {
		name  string
		start string
	}
	picks := make(map[string]pick)

	for _, nc := range changes {
		if nc.Name == "" || !nc.ActiveOn(date) {
			continue
		}
		if cur, ok := picks[nc.Code]; ok && nc.StartDate < cur.start {
			continue
		}
		picks[nc.Code] = pick{name: nc.Name, start: nc.StartDate}
	}

	names := make(map[string]string, len(picks))
	for code, p := range picks {
		names[code] = p.name
	}
	return names
}

// checkExclusion checks if a security should be excluded and returns the reason
func (b *Builder) checkExclusion(sec contracts.Security) string {
	// 1. 거래소
	if !b.exchangeAllowed(sec.Exchange) {
		return fmt.Sprintf("exchange %q not allowed", sec.Exchange)
	}

	// 2. ST
	if b.config.ExcludeST && isST(sec.Name) {
		return "ST"
	}

	return "" // 통과
}

func (b *Builder) exchangeAllowed(exchange string) bool {
	switch exchange {
	case contracts.ExchangeSSE, contracts.ExchangeSZSE:
		return true
	case contracts.ExchangeBSE:
		return b.config.AllowBeijing
	default:
		return false
	}
}

// isST checks the special-treatment marker in a display name
func isST(name string) bool {
	return strings.Contains(name, stMarker)
}
