package s5_publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Change is one security entering or leaving a track
type Change struct {
	Code string `json:"ts_code"`
	Name string `json:"name"`
}

// VariantChanges lists entries and exits of one track
type VariantChanges struct {
	NewIn   []Change `json:"new_in"`
	Removed []Change `json:"removed"`
}

// Noise is a one-character keyword match worth a manual look
type Noise struct {
	Code    string `json:"ts_code"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

// ChangeReport is the changes_<date>.json payload
type ChangeReport struct {
	Date           string                               `json:"date"`
	Changes        map[contracts.Variant]VariantChanges `json:"changes"`
	SuspectedNoise map[contracts.Variant][]Noise        `json:"suspected_noise"`
}

// ComputeChanges diffs today's membership against the previous snapshot per variant.
// Entries keep today's order, exits keep the previous order.
func ComputeChanges(today, previous []contracts.VariantRow) map[contracts.Variant]VariantChanges {
	out := make(map[contracts.Variant]VariantChanges, len(contracts.Variants))
	for _, v := range contracts.Variants {
		cur := filterVariant(today, v)
		prev := filterVariant(previous, v)
		out[v] = VariantChanges{
			NewIn:   difference(cur, prev),
			Removed: difference(prev, cur),
		}
	}
	return out
}

// ComputeSuspectedNoise lists non-forced rows matched by a one-character keyword
func ComputeSuspectedNoise(rows []contracts.VariantRow) map[contracts.Variant][]Noise {
	out := make(map[contracts.Variant][]Noise, len(contracts.Variants))
	for _, v := range contracts.Variants {
		seen := make(map[Noise]bool)
		list := make([]Noise, 0)
		for _, r := range filterVariant(rows, v) {
			if r.Forced || utf8.RuneCountInString(r.Keyword) != 1 {
				continue
			}
			n := Noise{Code: r.Code, Name: r.Name, Keyword: r.Keyword}
			if seen[n] {
				continue
			}
			seen[n] = true
			list = append(list, n)
		}
		out[v] = list
	}
	return out
}

// NewChangeReport assembles the report for a run date.
// Changes diff the holdings snapshots; suspected noise is taken from the full
// constituent rows so unpriced members are still listed.
func NewChangeReport(date string, today, previous, constituents []contracts.VariantRow) ChangeReport {
	return ChangeReport{
		Date:           date,
		Changes:        ComputeChanges(today, previous),
		SuspectedNoise: ComputeSuspectedNoise(constituents),
	}
}

// WriteChanges writes the report as indented JSON
func WriteChanges(path string, report ChangeReport) error {
	return writeJSON(path, report)
}

func filterVariant(rows []contracts.VariantRow, v contracts.Variant) []contracts.VariantRow {
	out := make([]contracts.VariantRow, 0, len(rows))
	for _, r := range rows {
		if r.Variant == v {
			out = append(out, r)
		}
	}
	return out
}

// difference returns rows of a whose code is absent from b, one per (code, name)
func difference(a, b []contracts.VariantRow) []Change {
	inB := make(map[string]bool, len(b))
	for _, r := range b {
		inB[r.Code] = true
	}
	seen := make(map[Change]bool)
	out := make([]Change, 0)
	for _, r := range a {
		if inB[r.Code] {
			continue
		}
		c := Change{Code: r.Code, Name: r.Name}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
