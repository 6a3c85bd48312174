package s4_ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Header is the column order written to nav.csv
var Header = []string{
	"date",
	"zoo_strict_ret", "zoo_extended_ret", "benchmark_ret",
	"zoo_strict_nav", "zoo_extended_nav", "benchmark_nav",
}

// legacy column names from ledgers written before the benchmark became configurable
var legacyColumns = map[string]string{
	"hs300_ret": "benchmark_ret",
	"hs300_nav": "benchmark_nav",
}

// Store persists the ledger as a CSV file.
// Read-modify-write without locking; callers serialize runs.
type Store struct {
	path string
}

// NewStore creates a CSV-backed ledger store
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the full history. A missing file is an empty ledger.
func (s *Store) Load() ([]contracts.LedgerRow, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []contracts.LedgerRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}
	sortByDate(rows)
	return rows, nil
}

// Save rewrites the ledger atomically (temp file + rename)
func (s *Store) Save(rows []contracts.LedgerRow) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".nav-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	sorted := append([]contracts.LedgerRow(nil), rows...)
	sortByDate(sorted)

	if err := WriteCSV(tmp, sorted); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// ReadCSV parses ledger rows, resolving columns by header name
func ReadCSV(r io.Reader) ([]contracts.LedgerRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []contracts.LedgerRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if canonical, ok := legacyColumns[name]; ok {
			name = canonical
		}
		cols[name] = i
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	rows := make([]contracts.LedgerRow, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		p := fieldParser{record: record, cols: cols, line: line}
		row := contracts.LedgerRow{
			Date:         p.text("date"),
			StrictRet:    p.float("zoo_strict_ret"),
			ExtendedRet:  p.float("zoo_extended_ret"),
			BenchmarkRet: p.float("benchmark_ret"),
			StrictNAV:    p.float("zoo_strict_nav"),
			ExtendedNAV:  p.float("zoo_extended_nav"),
			BenchmarkNAV: p.float("benchmark_nav"),
		}
		if p.err != nil {
			return nil, p.err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes rows in the given order under Header
func WriteCSV(w io.Writer, rows []contracts.LedgerRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Date,
			FormatFloat(r.StrictRet), FormatFloat(r.ExtendedRet), FormatFloat(r.BenchmarkRet),
			FormatFloat(r.StrictNAV), FormatFloat(r.ExtendedNAV), FormatFloat(r.BenchmarkNAV),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatFloat renders a value with the shortest exact representation
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type fieldParser struct {
	record []string
	cols   map[string]int
	line   int
	err    error
}

func (p *fieldParser) text(name string) string {
	i := p.cols[name]
	if i >= len(p.record) {
		if p.err == nil {
			p.err = fmt.Errorf("line %d: missing %s", p.line, name)
		}
		return ""
	}
	return strings.TrimSpace(p.record[i])
}

func (p *fieldParser) float(name string) float64 {
	s := p.text(name)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("line %d: %s: %w", p.line, name, err)
		return 0
	}
	return v
}
