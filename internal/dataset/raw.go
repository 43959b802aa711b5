package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNoRows is returned for inputs that contain a header but no data.
var ErrNoRows = errors.New("dataset has no data rows")

// Raw is a loaded table whose cells are all kept as text. Typing happens in
// the normalizer.
type Raw struct {
	Name string
	df   dataframe.DataFrame
}

// FromRecords builds a raw table from a header row followed by data rows.
// Short rows are padded with empty cells.
func FromRecords(name string, records [][]string) (*Raw, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%s: empty input", name)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoRows)
	}
	ncol := len(records[0])
	header := make([]string, ncol)
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	norm := make([][]string, 0, len(records))
	norm = append(norm, header)
	for i, rec := range records[1:] {
		if len(rec) > ncol {
			return nil, fmt.Errorf("%s: row %d has %d fields, header has %d", name, i+1, len(rec), ncol)
		}
		row := make([]string, ncol)
		copy(row, rec)
		norm = append(norm, row)
	}
	df := dataframe.LoadRecords(norm,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%s: load records: %w", name, df.Err)
	}
	return &Raw{Name: name, df: df}, nil
}

// Header returns the column names.
func (r *Raw) Header() []string { return r.df.Names() }

// Rows returns the number of data rows.
func (r *Raw) Rows() int { return r.df.Nrow() }

// Has reports whether a column is present.
func (r *Raw) Has(name string) bool {
	for _, n := range r.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the cells of one column.
func (r *Raw) Column(name string) ([]string, bool) {
	if !r.Has(name) {
		return nil, false
	}
	return r.df.Col(name).Records(), true
}

// Drop returns a raw table without the named columns. Names that are not
// present are ignored.
func (r *Raw) Drop(names ...string) (*Raw, error) {
	var present []string
	for _, n := range names {
		if r.Has(n) {
			present = append(present, n)
		}
	}
	if len(present) == 0 {
		return r, nil
	}
	df := r.df.Drop(present)
	if df.Err != nil {
		return nil, fmt.Errorf("drop columns: %w", df.Err)
	}
	return &Raw{Name: r.Name, df: df}, nil
}

// Duplicates counts rows identical to an earlier row.
func (r *Raw) Duplicates() int {
	recs := r.df.Records()
	if len(recs) <= 1 {
		return 0
	}
	seen := make(map[string]struct{}, len(recs)-1)
	dups := 0
	for _, rec := range recs[1:] {
		key := strings.Join(rec, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
