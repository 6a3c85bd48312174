package brain

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
)

func TestRunDaily_SkipsClosedDay(t *testing.T) {
	o, layout := newTestOrchestrator(t, newFakeMarket(), nil)

	result, err := o.RunDaily(context.Background(), "20240106")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.NoFileExists(t, layout.NavPath())
}

func TestRunDaily_Success(t *testing.T) {
	mirror := &fakeMirror{}
	o, layout := newTestOrchestrator(t, newFakeMarket(), mirror)
	ctx := context.Background()

	first, err := o.RunDaily(ctx, "20240102")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, first.Outcome)
	assert.True(t, first.Quality.Passed())
	assert.InDelta(t, 1.1, first.Row.StrictNAV, 1e-12)

	second, err := o.RunDaily(ctx, "20240103")
	require.NoError(t, err)
	assert.InDelta(t, 1.21, second.Row.StrictNAV, 1e-12)
	assert.InDelta(t, 1.0201, second.Row.BenchmarkNAV, 1e-12)
	assert.Empty(t, second.Changes.Changes[contracts.VariantStrict].NewIn)

	rows, err := s4_ledger.NewStore(layout.NavPath()).Load()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, path := range []string{
		layout.HoldingsPath("20240103"),
		layout.ChangesPath("20240103"),
		layout.ConstituentsPath("20240102"),
		layout.LatestPath(),
		layout.IndexPath(),
		layout.ChartPath(),
	} {
		assert.FileExists(t, path)
	}

	require.Len(t, mirror.ledgerRows, 2)
	assert.Equal(t, "20240103", mirror.ledgerRows[1].Date)
	assert.Len(t, mirror.constituents["20240102"], 3)
}

func TestRunDaily_RejectsPastDate(t *testing.T) {
	o, _ := newTestOrchestrator(t, newFakeMarket(), nil)
	ctx := context.Background()

	_, err := o.RunDaily(ctx, "20240103")
	require.NoError(t, err)

	result, err := o.RunDaily(ctx, "20240102")
	require.ErrorIs(t, err, contracts.ErrDateRejected)
	assert.Equal(t, OutcomeRejected, result.Outcome)
}

func TestRunDaily_RerunLatestIsIdempotent(t *testing.T) {
	o, layout := newTestOrchestrator(t, newFakeMarket(), nil)
	ctx := context.Background()
	store := s4_ledger.NewStore(layout.NavPath())

	_, err := o.RunDaily(ctx, "20240102")
	require.NoError(t, err)
	_, err = o.RunDaily(ctx, "20240103")
	require.NoError(t, err)
	before, err := store.Load()
	require.NoError(t, err)

	result, err := o.RunDaily(ctx, "20240103")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)

	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunDaily_ReportsChangesAgainstPreviousHoldings(t *testing.T) {
	m := newFakeMarket()
	o, layout := newTestOrchestrator(t, m, nil)
	ctx := context.Background()

	_, err := o.RunDaily(ctx, "20240131")
	require.NoError(t, err)

	result, err := o.RunDaily(ctx, "20240201")
	require.NoError(t, err)

	assert.Equal(t, []s5_publish.Change{{Code: "600003.SH", Name: "白马股份"}},
		result.Changes.Changes[contracts.VariantExtended].NewIn)
	assert.FileExists(t, layout.ConstituentsPath("20240201"))
}

func TestRunDaily_FlagsLowCoverage(t *testing.T) {
	market := newFakeMarket()
	market.prices["20240102"] = []contracts.Price{
		{Code: "000001.SZ", Close: 11, PreClose: 10},
	}
	o, _ := newTestOrchestrator(t, market, nil)

	result, err := o.RunDaily(context.Background(), "20240102")
	require.NoError(t, err, "partial coverage is not fatal")

	require.NotNil(t, result.Quality)
	assert.Equal(t, []contracts.Variant{contracts.VariantExtended}, result.Quality.Below)
	assert.InDelta(t, 0.5, result.Quality.Coverage[contracts.VariantExtended], 1e-12)
	assert.InDelta(t, 0.1, result.Row.ExtendedRet, 1e-12)
}

func TestRunDaily_SuspectedNoiseIncludesUnpricedConstituents(t *testing.T) {
	market := newFakeMarket()
	// 马应龙 has no bar on this date
	market.prices["20240102"] = []contracts.Price{
		{Code: "000001.SZ", Close: 11, PreClose: 10},
	}
	o, layout := newTestOrchestrator(t, market, nil)

	result, err := o.RunDaily(context.Background(), "20240102")
	require.NoError(t, err)

	want := []s5_publish.Noise{{Code: "000002.SZ", Name: "马应龙", Keyword: "马"}}
	assert.Equal(t, want, result.Changes.SuspectedNoise[contracts.VariantExtended])
	assert.Empty(t, result.Changes.SuspectedNoise[contracts.VariantStrict])
	assert.Empty(t, result.Changes.Changes[contracts.VariantExtended].Removed)

	data, err := os.ReadFile(layout.ChangesPath("20240102"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "马应龙")
}
