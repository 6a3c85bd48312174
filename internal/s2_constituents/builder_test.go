package s2_constituents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/rules"
)

func TestBuilder_Build(t *testing.T) {
	r := &rules.Rules{
		StrictKeywords:   []string{"牛", "马"},
		ExtendedKeywords: []string{"牛", "马", "龙"},
		ForceInclude:     []string{"600519.SH"},
	}
	universe := &contracts.Universe{Securities: []contracts.Security{
		{Code: "000001.SZ", Name: "龙马环卫"},
		{Code: "600519.SH", Name: "贵州茅台"},
		{Code: "000002.SZ", Name: "中国平安"},
		{Code: "000003.SZ", Name: "龙头股份"},
		{Code: "000004.SZ", Name: "牛奶乳业"},
	}}

	set := NewBuilder(NewMatcher(r)).Build("20240102", universe)

	assert.Equal(t, "20240102", set.Date)
	assert.Equal(t, []contracts.Constituent{
		{Code: "000001.SZ", Name: "龙马环卫", Keyword: "马"},
		{Code: "600519.SH", Name: "贵州茅台", Keyword: contracts.ForcedKeyword, Forced: true},
		{Code: "000004.SZ", Name: "牛奶乳业", Keyword: "牛"},
	}, set.Strict)
	assert.Equal(t, []contracts.Constituent{
		{Code: "000001.SZ", Name: "龙马环卫", Keyword: "马"},
		{Code: "600519.SH", Name: "贵州茅台", Keyword: contracts.ForcedKeyword, Forced: true},
		{Code: "000003.SZ", Name: "龙头股份", Keyword: "龙"},
		{Code: "000004.SZ", Name: "牛奶乳业", Keyword: "牛"},
	}, set.Extended)
}

func TestBuilder_EmptyUniverse(t *testing.T) {
	set := NewBuilder(NewMatcher(&rules.Rules{})).Build("20240102", &contracts.Universe{})
	assert.Empty(t, set.Strict)
	assert.Empty(t, set.Extended)
}

func TestRows_StrictFirst(t *testing.T) {
	set := &contracts.ConstituentSet{
		Strict:   []contracts.Constituent{{Code: "A", Keyword: "牛"}},
		Extended: []contracts.Constituent{{Code: "A", Keyword: "牛"}, {Code: "B", Keyword: "龙"}},
	}

	rows := Rows(set)
	require.Len(t, rows, 3)
	assert.Equal(t, contracts.VariantStrict, rows[0].Variant)
	assert.Equal(t, contracts.VariantExtended, rows[1].Variant)
	assert.Equal(t, "B", rows[2].Code)
}
