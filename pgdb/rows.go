package pgdb

import (
	"fmt"
	"unicode"
)

// Row is one materialized result row. Its concrete type is decided by
// the cursor's row-construction strategy: *Record by default, or
// map[string]any under MapStrategy.
type Row any

// RowFactory converts one sequence of cast column values into a Row.
type RowFactory func(values []any) Row

// RowStrategy builds a RowFactory for a column set. The cursor invokes
// it again on every execute whose result changes the column set.
type RowStrategy func(colnames []string) RowFactory

// Record is the default fixed-field row representation: ordered values
// with per-column field names derived deterministically from the result
// columns.
type Record struct {
	fields []string
	values []any
}

// Len returns the number of columns.
func (r *Record) Len() int { return len(r.values) }

// Fields returns the field names in column order.
func (r *Record) Fields() []string { return r.fields }

// Values returns the column values in order.
func (r *Record) Values() []any { return r.values }

// Value returns the value of the i-th column.
func (r *Record) Value(i int) any { return r.values[i] }

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	for i, f := range r.fields {
		if f == name {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r *Record) String() string {
	return fmt.Sprintf("Record%v", r.values)
}

// RecordStrategy builds *Record rows. Column names that are not
// identifier-shaped, or that duplicate an earlier column, are renamed
// to column_<position> so every field name is distinct and
// deterministic.
func RecordStrategy(colnames []string) RowFactory {
	fields := fieldNames(colnames)
	return func(values []any) Row {
		return &Record{fields: fields, values: values}
	}
}

// MapStrategy builds map[string]any rows keyed by the original column
// names. Duplicate column names collapse to the last value.
func MapStrategy(colnames []string) RowFactory {
	names := append([]string(nil), colnames...)
	return func(values []any) Row {
		m := make(map[string]any, len(names))
		for i, n := range names {
			if i < len(values) {
				m[n] = values[i]
			}
		}
		return m
	}
}

func fieldNames(colnames []string) []string {
	out := make([]string, len(colnames))
	seen := make(map[string]bool, len(colnames))
	for i, name := range colnames {
		if !isIdentifier(name) || seen[name] {
			name = fmt.Sprintf("column_%d", i)
		}
		for seen[name] {
			name += "_"
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func isIdentifier(s string) bool {
	for i, c := range s {
		if i == 0 {
			if !unicode.IsLetter(c) {
				return false
			}
		} else if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			return false
		}
	}
	return s != ""
}
