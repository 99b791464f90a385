package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
	KindDate    ColumnKind = "date"
)

// Column is a named, typed sequence of cells. Values keeps the trimmed cell
// text; Numbers is populated for numeric columns only (NaN marks a missing cell).
type Column struct {
	Name    string
	Kind    ColumnKind
	Values  []string
	Numbers []float64
}

// Table is an in-memory dataset of equal-length columns with unique names.
// A Table is never mutated after construction.
type Table struct {
	Columns []Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from a header and row-major cells, inferring a kind
// for every column. Rows must not be wider than the header; shorter rows are
// padded with missing cells.
func NewTable(names []string, rows [][]string) (*Table, error) {
	t := &Table{Columns: make([]Column, len(names)), index: make(map[string]int, len(names)), rows: len(rows)}
	for i, n := range names {
		if _, dup := t.index[n]; dup {
			return nil, fmt.Errorf("duplicate column name %q", n)
		}
		t.index[n] = i
		t.Columns[i] = Column{Name: n, Values: make([]string, len(rows))}
	}
	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", r+1, len(row), len(names))
		}
		for c := range row {
			t.Columns[c].Values[r] = strings.TrimSpace(row[c])
		}
	}
	for i := range t.Columns {
		inferKind(&t.Columns[i])
	}
	return t, nil
}

func (t *Table) NumRows() int { return t.rows }
func (t *Table) NumCols() int { return len(t.Columns) }

func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

// ColumnsOfKind returns the names of all columns of kind k, in declaration order.
func (t *Table) ColumnsOfKind(k ColumnKind) []string {
	out := []string{}
	for _, c := range t.Columns {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Kinds maps every column name to its inferred kind.
func (t *Table) Kinds() map[string]ColumnKind {
	out := make(map[string]ColumnKind, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = c.Kind
	}
	return out
}

func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for c := range t.Columns {
		out[c] = t.Columns[c].Values[i]
	}
	return out
}

// Subset returns a new table holding the rows at idx, in that order. Column
// kinds are carried over rather than re-inferred.
func (t *Table) Subset(idx []int) *Table {
	out := &Table{Columns: make([]Column, len(t.Columns)), index: t.index, rows: len(idx)}
	for c, col := range t.Columns {
		nc := Column{Name: col.Name, Kind: col.Kind, Values: make([]string, len(idx))}
		if col.Numbers != nil {
			nc.Numbers = make([]float64, len(idx))
		}
		for j, i := range idx {
			nc.Values[j] = col.Values[i]
			if col.Numbers != nil {
				nc.Numbers[j] = col.Numbers[i]
			}
		}
		out.Columns[c] = nc
	}
	return out
}

// Head returns the first n rows (or all rows when there are fewer).
func (t *Table) Head(n int) *Table {
	if n >= t.rows {
		return t
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Subset(idx)
}

// Records renders up to limit rows as JSON-friendly maps: numeric cells become
// float64, missing cells become nil. limit <= 0 means all rows.
func (t *Table) Records(limit int) []map[string]any {
	n := t.rows
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			rec[c.Name] = c.Value(i)
		}
		out[i] = rec
	}
	return out
}

// Value returns the cell at row i as float64, string or nil when missing.
func (c *Column) Value(i int) any {
	if c.Numbers != nil {
		if math.IsNaN(c.Numbers[i]) {
			return nil
		}
		return c.Numbers[i]
	}
	if IsMissing(c.Values[i]) {
		return nil
	}
	return c.Values[i]
}

// Float returns the numeric value at row i; ok is false for non-numeric
// columns and missing cells.
func (c *Column) Float(i int) (float64, bool) {
	if c.Numbers == nil || math.IsNaN(c.Numbers[i]) {
		return 0, false
	}
	return c.Numbers[i], true
}

// ValidNumbers returns every non-missing value of a numeric column.
func (c *Column) ValidNumbers() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

var missing = map[string]struct{}{
	"": {}, "nan": {}, "na": {}, "n/a": {}, "null": {}, "none": {}, "nat": {},
}

func IsMissing(s string) bool {
	_, ok := missing[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

var thousandsRe = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber parses a plain or thousands-separated number.
func ParseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if thousandsRe.MatchString(t) {
		t = strings.ReplaceAll(t, ",", "")
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2006",
	"January 2006",
	"2006-01",
	"1/2/06",
}

// ParseDate tries the known layouts in order.
func ParseDate(s string) (time.Time, bool) {
	t := strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if ts, err := time.Parse(l, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func inferKind(c *Column) {
	nums := make([]float64, len(c.Values))
	numeric, date, seen := true, true, 0
	for i, v := range c.Values {
		if IsMissing(v) {
			nums[i] = math.NaN()
			continue
		}
		seen++
		if numeric {
			if f, ok := ParseNumber(v); ok {
				nums[i] = f
			} else {
				numeric = false
			}
		}
		if date {
			if _, ok := ParseDate(v); !ok {
				date = false
			}
		}
		if !numeric && !date {
			break
		}
	}
	switch {
	case seen == 0:
		c.Kind = KindText
	case numeric:
		c.Kind = KindNumeric
		c.Numbers = nums
	case date:
		c.Kind = KindDate
	default:
		c.Kind = KindText
	}
}
