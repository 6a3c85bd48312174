package s5_publish

import (
	"fmt"
	"path/filepath"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Badge is a shields.io endpoint payload
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// NamedBadge pairs a badge with its file stem
type NamedBadge struct {
	Name  string
	Badge Badge
}

// Badges builds the three NAV badges of a ledger row
func Badges(row contracts.LedgerRow, benchmarkLabel string) []NamedBadge {
	nav := func(v float64) string { return fmt.Sprintf("%.4f", v) }
	return []NamedBadge{
		{"zoo_strict_nav", Badge{1, "Zoo Strict NAV", nav(row.StrictNAV), "2f855a"}},
		{"zoo_extended_nav", Badge{1, "Zoo Extended NAV", nav(row.ExtendedNAV), "c05621"}},
		{"benchmark_nav", Badge{1, benchmarkLabel + " NAV", nav(row.BenchmarkNAV), "3182ce"}},
	}
}

// WriteBadges writes <name>.json for each badge into dir
func WriteBadges(dir string, row contracts.LedgerRow, benchmarkLabel string) error {
	for _, b := range Badges(row, benchmarkLabel) {
		if err := writeJSON(filepath.Join(dir, b.Name+".json"), b.Badge); err != nil {
			return err
		}
	}
	return nil
}
