package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

func TestQualityGate_Check(t *testing.T) {
	gate := NewQualityGate(Config{})

	t.Run("full coverage passes", func(t *testing.T) {
		snapshot := gate.Check("20240105", map[contracts.Variant]contracts.IndexStats{
			contracts.VariantStrict:   {Total: 4, Priced: 4},
			contracts.VariantExtended: {Total: 10, Priced: 10},
		})

		assert.Equal(t, "20240105", snapshot.Date)
		assert.True(t, snapshot.Passed())
		assert.InDelta(t, 1.0, snapshot.QualityScore, 1e-12)
	})

	t.Run("thin extended coverage is flagged", func(t *testing.T) {
		snapshot := gate.Check("20240105", map[contracts.Variant]contracts.IndexStats{
			contracts.VariantStrict:   {Total: 4, Priced: 4},
			contracts.VariantExtended: {Total: 10, Priced: 8, Missing: 2},
		})

		assert.False(t, snapshot.Passed())
		assert.Equal(t, []contracts.Variant{contracts.VariantExtended}, snapshot.Below)
		assert.InDelta(t, 0.8, snapshot.Coverage[contracts.VariantExtended], 1e-12)
		assert.InDelta(t, 0.9, snapshot.QualityScore, 1e-12)
	})

	t.Run("below order is strict first", func(t *testing.T) {
		snapshot := gate.Check("20240105", map[contracts.Variant]contracts.IndexStats{
			contracts.VariantStrict:   {Total: 2, Priced: 1},
			contracts.VariantExtended: {Total: 2, Priced: 1},
		})

		assert.Equal(t, []contracts.Variant{contracts.VariantStrict, contracts.VariantExtended}, snapshot.Below)
	})
}

func TestNewQualityGate_Thresholds(t *testing.T) {
	gate := NewQualityGate(Config{MinStrictCoverage: 0.5})
	stats := map[contracts.Variant]contracts.IndexStats{
		contracts.VariantStrict:   {Total: 10, Priced: 6},
		contracts.VariantExtended: {Total: 10, Priced: 6},
	}

	snapshot := gate.Check("20240105", stats)
	assert.Equal(t, []contracts.Variant{contracts.VariantExtended}, snapshot.Below,
		"extended keeps the default threshold")
}
