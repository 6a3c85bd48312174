package s2_constituents

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
)

// Match is the classification of one variant
type Match struct {
	Included bool
	Keyword  string
	Forced   bool
}

// MatchResult pairs the strict and extended classification of one security
type MatchResult struct {
	Strict   Match
	Extended Match
}

// Get returns the match of a variant
func (r MatchResult) Get(v contracts.Variant) Match {
	if v == contracts.VariantExtended {
		return r.Extended
	}
	return r.Strict
}

// Matcher classifies (code, name) pairs against one rule set.
// Keyword lists are pre-sorted longest first so the longest substring match wins.
type Matcher struct {
	strict   []string
	extended []string
	exclude  []string

	includeCodes map[string]struct{}
	includeNames map[string]struct{}
	excludeCodes map[string]struct{}
	excludeNames map[string]struct{}
}

// NewMatcher prepares the matcher state for a whole run
func NewMatcher(r *rules.Rules) *Matcher {
	m := &Matcher{
		strict:   byLengthDesc(r.StrictKeywords),
		extended: byLengthDesc(r.ExtendedKeywords),
		exclude:  nonBlank(r.ExcludePatterns),
	}
	m.includeCodes, m.includeNames = splitForce(r.ForceInclude)
	m.excludeCodes, m.excludeNames = splitForce(r.ForceExclude)
	return m
}

// Classify decides strict and extended membership of one security.
// Order: force_exclude, force_include, exclude patterns, keyword passes.
func (m *Matcher) Classify(code, name string) MatchResult {
	code = strings.ToUpper(strings.TrimSpace(code))

	if hit(m.excludeCodes, code) || hit(m.excludeNames, name) {
		return MatchResult{}
	}

	if hit(m.includeCodes, code) || hit(m.includeNames, name) {
		forced := Match{Included: true, Keyword: contracts.ForcedKeyword, Forced: true}
		return MatchResult{Strict: forced, Extended: forced}
	}

	for _, pattern := range m.exclude {
		if strings.Contains(name, pattern) {
			return MatchResult{}
		}
	}

	// 두 패스는 독립적으로 수행
	return MatchResult{
		Strict:   firstMatch(m.strict, name),
		Extended: firstMatch(m.extended, name),
	}
}

func firstMatch(keywords []string, name string) Match {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return Match{Included: true, Keyword: kw}
		}
	}
	return Match{}
}

// byLengthDesc copies keywords sorted by rune length, longest first; ties keep input order
func byLengthDesc(keywords []string) []string {
	sorted := nonBlank(keywords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	return sorted
}

// splitForce separates exact code entries from exact name entries
func splitForce(items []string) (codes, names map[string]struct{}) {
	codes = make(map[string]struct{})
	names = make(map[string]struct{})
	for _, item := range items {
		if rules.IsSecurityCode(item) {
			codes[strings.ToUpper(strings.TrimSpace(item))] = struct{}{}
			continue
		}
		names[item] = struct{}{}
	}
	return codes, names
}

func hit(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}

// nonBlank copies the entries that are not empty after trimming.
// An empty pattern would match every name.
func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
