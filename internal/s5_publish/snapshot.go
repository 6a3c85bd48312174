package s5_publish

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

var (
	holdingsHeader     = []string{"ts_code", "name", "keyword", "forced", "weight", "ret", "close", "pre_close", "variant"}
	constituentsHeader = []string{"ts_code", "name", "keyword", "forced", "variant"}
)

// HoldingRecord is one holdings CSV row
type HoldingRecord struct {
	contracts.Holding
	Variant contracts.Variant `json:"variant"`
}

// WriteHoldings writes strict then extended holdings with a variant column
func WriteHoldings(path string, strict, extended []contracts.Holding) error {
	records := make([][]string, 0, len(strict)+len(extended))
	add := func(v contracts.Variant, hs []contracts.Holding) {
		for _, h := range hs {
			records = append(records, []string{
				h.Code, h.Name, h.Keyword, formatBool(h.Forced),
				formatNumber(h.Weight), formatNumber(h.Return),
				formatNumber(h.Close), formatNumber(h.PreClose),
				string(v),
			})
		}
	}
	add(contracts.VariantStrict, strict)
	add(contracts.VariantExtended, extended)

	return writeCSV(path, holdingsHeader, records)
}

// WriteConstituents writes variant-tagged constituent rows
func WriteConstituents(path string, rows []contracts.VariantRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Code, r.Name, r.Keyword, formatBool(r.Forced), string(r.Variant)})
	}
	return writeCSV(path, constituentsHeader, records)
}

// ReadHoldings reads a holdings snapshot
func ReadHoldings(path string) ([]HoldingRecord, error) {
	var out []HoldingRecord
	err := readCSV(path, func(row csvRow) error {
		h := HoldingRecord{
			Holding: contracts.Holding{
				Code:     row.get("ts_code"),
				Name:     row.get("name"),
				Keyword:  row.get("keyword"),
				Forced:   parseBool(row.get("forced")),
				Weight:   parseNumber(row.get("weight")),
				Return:   parseNumber(row.get("ret")),
				Close:    parseNumber(row.get("close")),
				PreClose: parseNumber(row.get("pre_close")),
			},
			Variant: contracts.Variant(row.get("variant")),
		}
		h.Priced = !math.IsNaN(h.Return)
		out = append(out, h)
		return nil
	})
	return out, err
}

// ReadMembership reads code/name/keyword/forced/variant from a holdings or constituents snapshot
func ReadMembership(path string) ([]contracts.VariantRow, error) {
	var out []contracts.VariantRow
	err := readCSV(path, func(row csvRow) error {
		out = append(out, contracts.VariantRow{
			Code:    row.get("ts_code"),
			Name:    row.get("name"),
			Keyword: row.get("keyword"),
			Forced:  parseBool(row.get("forced")),
			Variant: contracts.Variant(row.get("variant")),
		})
		return nil
	})
	return out, err
}

// MembershipFromHoldings tags holdings with their variant
func MembershipFromHoldings(strict, extended []contracts.Holding) []contracts.VariantRow {
	rows := make([]contracts.VariantRow, 0, len(strict)+len(extended))
	for _, v := range contracts.Variants {
		hs := strict
		if v == contracts.VariantExtended {
			hs = extended
		}
		for _, h := range hs {
			rows = append(rows, contracts.VariantRow{Code: h.Code, Name: h.Name, Keyword: h.Keyword, Forced: h.Forced, Variant: v})
		}
	}
	return rows
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func readCSV(path string, fn func(csvRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := cols["ts_code"]; !ok {
		return fmt.Errorf("read %s: missing column \"ts_code\"", path)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := fn(csvRow{cols: cols, record: record}); err != nil {
			return err
		}
	}
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// formatNumber writes NaN as an empty cell
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// parseBool accepts True/False, true/false and 1/0
func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
