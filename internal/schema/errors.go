package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports a missing expected column or a value of the wrong basic
// type. Row is the 1-based data row, or 0 when the error is not row specific.
type SchemaError struct {
	Columns []string
	Row     int
	Value   string
	Reason  string
}

func (e *SchemaError) Error() string {
	cols := strings.Join(e.Columns, ", ")
	if e.Row > 0 {
		return fmt.Sprintf("schema: column %s row %d: %s (value %q)", cols, e.Row, e.Reason, e.Value)
	}
	return fmt.Sprintf("schema: %s: %s", e.Reason, cols)
}

// UnmappedOrdinalValueError reports an ordinal code outside its lookup.
type UnmappedOrdinalValueError struct {
	Field  string
	Lookup string
	Row    int
	Value  string
}

func (e *UnmappedOrdinalValueError) Error() string {
	return fmt.Sprintf("unmapped ordinal value: %s row %d: %q is not in the %s lookup", e.Field, e.Row, e.Value, e.Lookup)
}
