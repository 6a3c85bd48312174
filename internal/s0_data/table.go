package s0_data

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// table is a column-addressed view of an API result
type table struct {
	cols  map[string]int
	items [][]interface{}
}

func newTable(fields []string, items [][]interface{}) *table {
	cols := make(map[string]int, len(fields))
	for i, f := range fields {
		cols[f] = i
	}
	return &table{cols: cols, items: items}
}

// Len returns the row count
func (t *table) Len() int {
	return len(t.items)
}

func (t *table) cell(row int, field string) interface{} {
	i, ok := t.cols[field]
	if !ok || i >= len(t.items[row]) {
		return nil
	}
	return t.items[row][i]
}

// str returns a cell as text; null is empty
func (t *table) str(row int, field string) string {
	switch v := t.cell(row, field).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// float returns a cell as a number; null or unparsable is NaN
func (t *table) float(row int, field string) float64 {
	switch v := t.cell(row, field).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// flag reads 0/1 (number or text) as a bool
func (t *table) flag(row int, field string) bool {
	f := t.float(row, field)
	return !math.IsNaN(f) && f != 0
}
