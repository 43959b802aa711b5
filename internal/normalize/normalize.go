// Package normalize turns a raw HR table into the typed table every aggregate
// runs on: constant columns dropped, ordinal codes mapped to labels, AgeGroup
// derived and label fields locked to their declared domains.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/attrition-cli/internal/dataset"
	"github.com/KaramelBytes/attrition-cli/internal/schema"
	"github.com/KaramelBytes/attrition-cli/internal/table"
)

// Options controls normalization.
type Options struct {
	// SkipPresenceCheck disables the expected-column check. Only columns that
	// are present are dropped and typed, and ordinal cells may already hold
	// their labels, as in the output of Records.
	SkipPresenceCheck bool
	// DecimalSeparator and ThousandsSeparator override separator detection
	// for numeric cells.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// Result is a normalized table plus what normalization did to get there.
type Result struct {
	Table      *table.Table
	Derived    []string
	Dropped    []string
	Ignored    []string
	Duplicates int
}

// Normalize runs presence check, drop, duplicate count, numeric parsing,
// ordinal mapping, AgeGroup binning and categorical typing, in that order.
// It fails with *schema.SchemaError or *schema.UnmappedOrdinalValueError.
func Normalize(raw *dataset.Raw, opt Options) (*Result, error) {
	if raw == nil {
		return nil, errors.New("normalize: nil table")
	}
	if !opt.SkipPresenceCheck {
		var missing []string
		for _, name := range schema.Expected() {
			if !raw.Has(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, &schema.SchemaError{Columns: missing, Reason: "missing expected columns"}
		}
	}

	res := &Result{}
	for _, name := range schema.Dropped {
		if raw.Has(name) {
			res.Dropped = append(res.Dropped, name)
		}
	}
	kept, err := raw.Drop(res.Dropped...)
	if err != nil {
		return nil, err
	}
	res.Duplicates = kept.Duplicates()
	for _, name := range kept.Header() {
		if _, known := schema.KindOf(name); !known {
			res.Ignored = append(res.Ignored, name)
		}
	}

	var cols []schema.Column
	for _, c := range schema.Columns {
		if !schema.IsDropped(c.Name) && kept.Has(c.Name) {
			cols = append(cols, c)
		}
	}

	numeric := make(map[string][]float64)
	for _, c := range cols {
		if c.Kind != schema.Numeric {
			continue
		}
		cells, _ := kept.Column(c.Name)
		vals, err := parseColumn(c.Name, cells, opt)
		if err != nil {
			return nil, err
		}
		numeric[c.Name] = vals
	}

	labels := make(map[string][]string)
	for _, c := range cols {
		if c.Kind != schema.Ordinal {
			continue
		}
		cells, _ := kept.Column(c.Name)
		mapped, err := mapOrdinal(c.Name, schema.Ordinals[c.Name], cells, opt)
		if err != nil {
			return nil, err
		}
		labels[c.Name] = mapped
	}

	var ageGroup *table.Categorical
	if ages, ok := numeric[schema.AgeGroup.Source]; ok {
		ageGroup, err = binAge(ages)
		if err != nil {
			return nil, err
		}
	}

	t := table.New(kept.Rows())
	for _, c := range cols {
		switch c.Kind {
		case schema.Numeric:
			err = t.AddNumeric(c.Name, numeric[c.Name])
		case schema.Ordinal:
			err = addCategorical(t, c.Name, labels[c.Name])
		case schema.Nominal:
			cells, _ := kept.Column(c.Name)
			err = addCategorical(t, c.Name, trimMissing(cells))
		}
		if err != nil {
			return nil, err
		}
	}
	if ageGroup != nil {
		if err := t.AddCategorical(schema.AgeGroup.Target, ageGroup); err != nil {
			return nil, err
		}
		res.Derived = append(res.Derived, schema.AgeGroup.Target)
	}
	res.Table = t
	return res, nil
}

// Records exports a normalized table as text records. Feeding them back
// through Normalize with SkipPresenceCheck yields the same table.
func Records(t *table.Table) [][]string { return t.Records() }

func parseColumn(name string, cells []string, opt Options) ([]float64, error) {
	vals := make([]float64, len(cells))
	for i, s := range cells {
		if isMissing(s) {
			vals[i] = math.NaN()
			continue
		}
		v, ok := parseNumeric(s, opt)
		if !ok {
			return nil, &schema.SchemaError{Columns: []string{name}, Row: i + 1, Value: s, Reason: "not a number"}
		}
		vals[i] = v
	}
	return vals, nil
}

func mapOrdinal(name string, lk schema.Lookup, cells []string, opt Options) ([]string, error) {
	out := make([]string, len(cells))
	for i, s := range cells {
		s = strings.TrimSpace(s)
		if isMissing(s) {
			continue
		}
		if opt.SkipPresenceCheck && lk.HasLabel(s) {
			out[i] = s
			continue
		}
		v, ok := parseNumeric(s, opt)
		if ok && v == math.Trunc(v) {
			if lb, found := lk.Label(int(v)); found {
				out[i] = lb
				continue
			}
		}
		return nil, &schema.UnmappedOrdinalValueError{Field: name, Lookup: lk.Name, Row: i + 1, Value: s}
	}
	return out, nil
}

func binAge(ages []float64) (*table.Categorical, error) {
	spec := schema.AgeGroup
	c, err := table.Bin(ages, spec.Lower, spec.Labels)
	if err != nil {
		var re *table.RangeError
		if errors.As(err, &re) {
			return nil, &schema.SchemaError{
				Columns: []string{spec.Source},
				Row:     re.Row + 1,
				Value:   fmt.Sprintf("%g", re.Value),
				Reason:  fmt.Sprintf("below the first %s bound %g", spec.Target, re.Min),
			}
		}
		return nil, err
	}
	return c, nil
}

func addCategorical(t *table.Table, name string, labels []string) error {
	domain, ordered, ok := schema.Domain(name)
	if !ok {
		return fmt.Errorf("normalize: no declared domain for %s", name)
	}
	c, err := table.NewCategorical(domain, ordered, labels)
	if err != nil {
		var ul *table.UnknownLabelError
		if errors.As(err, &ul) {
			return &schema.SchemaError{Columns: []string{name}, Row: ul.Row + 1, Value: ul.Label, Reason: "outside the declared vocabulary"}
		}
		return err
	}
	return t.AddCategorical(name, c)
}

func trimMissing(cells []string) []string {
	out := make([]string, len(cells))
	for i, s := range cells {
		if !isMissing(s) {
			out[i] = strings.TrimSpace(s)
		}
	}
	return out
}
