package s5_publish

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/vicanso/go-charts/v2"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// ErrEmptyLedger is returned when there is nothing to draw
var ErrEmptyLedger = errors.New("ledger is empty")

const (
	chartTitle  = "A-share Zoo Index"
	chartWidth  = 1000
	chartHeight = 600
)

// RenderChart draws the three NAV series as PNG bytes
func RenderChart(rows []contracts.LedgerRow, benchmarkLabel string) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyLedger
	}

	sorted := append([]contracts.LedgerRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	dates := make([]string, len(sorted))
	strict := make([]float64, len(sorted))
	extended := make([]float64, len(sorted))
	bench := make([]float64, len(sorted))
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i, r := range sorted {
		dates[i] = r.Date
		strict[i] = r.StrictNAV
		extended[i] = r.ExtendedNAV
		bench[i] = r.BenchmarkNAV
		for _, v := range []float64{r.StrictNAV, r.ExtendedNAV, r.BenchmarkNAV} {
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}
	// pad so flat series still get a visible band
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 0.01
	}
	yMin -= pad
	yMax += pad

	p, err := charts.LineRender(
		[][]float64{strict, extended, bench},
		charts.TitleTextOptionFunc(chartTitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        dates,
			SplitNumber: splitNumber(len(dates)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Zoo Strict", "Zoo Extended", benchmarkLabel},
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return p.Bytes()
}

// WriteChart renders the chart to path. An empty ledger writes nothing.
func WriteChart(path string, rows []contracts.LedgerRow, benchmarkLabel string) error {
	buf, err := RenderChart(rows, benchmarkLabel)
	if errors.Is(err, ErrEmptyLedger) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func splitNumber(n int) int {
	if n <= 30 {
		return max(3, n/3)
	}
	return 6
}
