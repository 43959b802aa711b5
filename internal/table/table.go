// Package table implements the normalized, typed table the aggregates run on.
// Columns are either numeric (float64, NaN for missing) or categorical.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrNoColumn is returned when a requested column does not exist.
	ErrNoColumn = errors.New("no such column")
	// ErrColumnKind is returned when a column exists with the other kind.
	ErrColumnKind = errors.New("wrong column kind")
)

// Table is an immutable-by-convention column store. Columns are added once;
// With derives a new table instead of mutating a shared one.
type Table struct {
	rows    int
	order   []string
	numeric map[string][]float64
	cats    map[string]*Categorical
}

// New returns an empty table with the given row count.
func New(rows int) *Table {
	return &Table{
		rows:    rows,
		numeric: make(map[string][]float64),
		cats:    make(map[string]*Categorical),
	}
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string { return append([]string(nil), t.order...) }

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, n := t.numeric[name]
	_, c := t.cats[name]
	return n || c
}

// IsNumeric reports whether name is a numeric column.
func (t *Table) IsNumeric(name string) bool {
	_, ok := t.numeric[name]
	return ok
}

// IsCategorical reports whether name is a categorical column.
func (t *Table) IsCategorical(name string) bool {
	_, ok := t.cats[name]
	return ok
}

// AddNumeric appends a numeric column.
func (t *Table) AddNumeric(name string, vals []float64) error {
	if err := t.checkNew(name, len(vals)); err != nil {
		return err
	}
	t.numeric[name] = vals
	t.order = append(t.order, name)
	return nil
}

// AddCategorical appends a categorical column.
func (t *Table) AddCategorical(name string, c *Categorical) error {
	if err := t.checkNew(name, c.Len()); err != nil {
		return err
	}
	t.cats[name] = c
	t.order = append(t.order, name)
	return nil
}

func (t *Table) checkNew(name string, n int) error {
	if t.Has(name) {
		return fmt.Errorf("add column %s: already present", name)
	}
	if n != t.rows {
		return fmt.Errorf("add column %s: %d values for %d rows", name, n, t.rows)
	}
	return nil
}

// Numeric returns the values of a numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	if v, ok := t.numeric[name]; ok {
		return v, nil
	}
	if _, ok := t.cats[name]; ok {
		return nil, fmt.Errorf("%s: %w: categorical", name, ErrColumnKind)
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNoColumn)
}

// Categorical returns a categorical column.
func (t *Table) Categorical(name string) (*Categorical, error) {
	if c, ok := t.cats[name]; ok {
		return c, nil
	}
	if _, ok := t.numeric[name]; ok {
		return nil, fmt.Errorf("%s: %w: numeric", name, ErrColumnKind)
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNoColumn)
}

// NumericColumns returns the numeric column names in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, n := range t.order {
		if _, ok := t.numeric[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// With returns a table that shares every column of t plus one extra
// categorical column. t itself is left untouched.
func (t *Table) With(name string, c *Categorical) (*Table, error) {
	out := New(t.rows)
	out.order = append(out.order, t.order...)
	for k, v := range t.numeric {
		out.numeric[k] = v
	}
	for k, v := range t.cats {
		out.cats[k] = v
	}
	if err := out.AddCategorical(name, c); err != nil {
		return nil, err
	}
	return out, nil
}

// Cell returns the text form of one cell: numbers in shortest form, labels
// as-is, and "" for missing values.
func (t *Table) Cell(name string, row int) string {
	if v, ok := t.numeric[name]; ok {
		if math.IsNaN(v[row]) {
			return ""
		}
		return strconv.FormatFloat(v[row], 'f', -1, 64)
	}
	if c, ok := t.cats[name]; ok {
		lb, _ := c.Label(row)
		return lb
	}
	return ""
}

// Records exports the table as a header row followed by one record per row.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Columns())
	for i := 0; i < t.rows; i++ {
		rec := make([]string, len(t.order))
		for j, name := range t.order {
			rec[j] = t.Cell(name, i)
		}
		out = append(out, rec)
	}
	return out
}
