package schema

import (
	"fmt"
	"strings"
)

// ParseError reports an unparseable date_of_report value.
// A single corrupt date fails the whole run.
type ParseError struct {
	Row   int    // Zero-based data row index
	Ref   string // Report reference, may be empty
	Value string // Offending value
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d (ref %q): cannot parse %s %q: %v", e.Row+1, e.Ref, DateColumn, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports required columns missing from an input table.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}
