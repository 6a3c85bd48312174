package s2_constituents

import (
	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Builder runs the matcher over a universe
type Builder struct {
	matcher *Matcher
}

// NewBuilder creates a new Constituent Builder
func NewBuilder(matcher *Matcher) *Builder {
	return &Builder{matcher: matcher}
}

// Build partitions the universe into strict and extended constituents.
// Rows keep universe order so serialized snapshots are stable.
// ⭐ SSOT: S2 → S3 구성 종목 산출
func (b *Builder) Build(date string, universe *contracts.Universe) *contracts.ConstituentSet {
	set := &contracts.ConstituentSet{
		Date:     date,
		Strict:   make([]contracts.Constituent, 0),
		Extended: make([]contracts.Constituent, 0),
	}

	for _, sec := range universe.Securities {
		result := b.matcher.Classify(sec.Code, sec.Name)
		if m := result.Strict; m.Included {
			set.Strict = append(set.Strict, constituent(sec, m))
		}
		if m := result.Extended; m.Included {
			set.Extended = append(set.Extended, constituent(sec, m))
		}
	}

	return set
}

func constituent(sec contracts.Security, m Match) contracts.Constituent {
	return contracts.Constituent{
		Code:    sec.Code,
		Name:    sec.Name,
		Keyword: m.Keyword,
		Forced:  m.Forced,
	}
}

// Rows flattens a constituent set into variant-tagged rows, strict first
func Rows(set *contracts.ConstituentSet) []contracts.VariantRow {
	rows := make([]contracts.VariantRow, 0, len(set.Strict)+len(set.Extended))
	for _, v := range contracts.Variants {
		for _, c := range set.Get(v) {
			rows = append(rows, contracts.VariantRow{
				Code:    c.Code,
				Name:    c.Name,
				Keyword: c.Keyword,
				Forced:  c.Forced,
				Variant: v,
			})
		}
	}
	return rows
}
