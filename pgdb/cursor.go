package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cito/pygresql/pgdb/driver"
)

// ColumnDescription describes one result column. Only Name, TypeCode
// and InternalSize are populated by this layer; the remaining fields
// are reserved placeholders.
type ColumnDescription struct {
	Name         string
	TypeCode     string
	DisplaySize  int
	InternalSize int
	Precision    int
	Scale        int
	NullOK       bool
}

// Cursor drives statement execution and row fetching on one statement
// handle of its parent connection. A cursor may be reused for any
// number of statements and must not be used after Close. Cursors of the
// same connection are independent but share its type cache, and must
// not be used concurrently.
type Cursor struct {
	// Description holds the column descriptors of the current result,
	// nil when the last statement returned no rows.
	Description []ColumnDescription
	// RowCount is the total row count of a row-returning result, or the
	// accumulated affected-row count of the last batch; -1 when
	// unknown.
	RowCount int
	// LastRowID is the server-reported identifier (OID) of the last
	// inserted row, 0 when none was reported.
	LastRowID int64
	// Arraysize is the default number of rows fetched by FetchMany.
	Arraysize int

	con      *Connection
	src      driver.Source
	cache    *TypeCache
	q        quoter
	colNames []string
	colTypes []string
	strategy RowStrategy
	factory  RowFactory
	closed   bool
}

// paramSet is one parameter set of a batch: positional or named.
type paramSet struct {
	pos   []any
	named map[string]any
}

func (p paramSet) empty() bool { return len(p.pos) == 0 && len(p.named) == 0 }

// SetRowStrategy replaces the cursor's row-construction strategy. It
// takes effect on the next execute.
func (cur *Cursor) SetRowStrategy(s RowStrategy) {
	if s != nil {
		cur.strategy = s
	}
}

// Execute prepares and runs one statement. With no arguments the
// template is executed verbatim; otherwise args are quoted and
// substituted for the %s placeholders. A single argument of type
// [][]any is dispatched as ExecuteMany, a legacy calling convention for
// multi-row operations.
func (cur *Cursor) Execute(ctx context.Context, query string, args ...any) (*Cursor, error) {
	if len(args) == 1 {
		if batch, ok := args[0].([][]any); ok {
			return cur.ExecuteMany(ctx, query, batch)
		}
	}
	return cur.executeBatch(ctx, query, []paramSet{{pos: args}})
}

// NamedExecute runs one statement with named parameters substituted for
// the %(name)s placeholders.
func (cur *Cursor) NamedExecute(ctx context.Context, query string, params map[string]any) (*Cursor, error) {
	return cur.executeBatch(ctx, query, []paramSet{{named: params}})
}

// ExecuteMany runs the template once per parameter set, in order. An
// empty batch is a no-op. A statement failure mid-batch leaves the
// implicit transaction open with the preceding statements applied; it
// is the caller's decision to commit or roll back after inspecting the
// error.
func (cur *Cursor) ExecuteMany(ctx context.Context, query string, batch [][]any) (*Cursor, error) {
	sets := make([]paramSet, len(batch))
	for i, b := range batch {
		sets[i] = paramSet{pos: b}
	}
	return cur.executeBatch(ctx, query, sets)
}

// NamedExecuteMany is ExecuteMany with named parameter sets.
func (cur *Cursor) NamedExecuteMany(ctx context.Context, query string, batch []map[string]any) (*Cursor, error) {
	sets := make([]paramSet, len(batch))
	for i, b := range batch {
		sets[i] = paramSet{named: b}
	}
	return cur.executeBatch(ctx, query, sets)
}

func (cur *Cursor) executeBatch(ctx context.Context, query string, sets []paramSet) (*Cursor, error) {
	if cur.closed {
		return nil, opError("cursor has been closed")
	}
	if len(sets) == 0 {
		return cur, nil
	}
	cur.Description = nil
	cur.colNames = nil
	cur.colTypes = nil
	cur.RowCount = -1
	cur.factory = nil

	if err := cur.con.begin(ctx); err != nil {
		return nil, err
	}
	rowcount := 0
	sql := query
	for _, set := range sets {
		sql = query
		if !set.empty() {
			var err error
			sql, err = cur.q.substitute(query, set.pos, set.named)
			if err != nil {
				return nil, err
			}
		}
		rows, err := cur.src.Execute(ctx, sql)
		if err != nil {
			return nil, wrapStatementError(err, sql)
		}
		if rows > 0 {
			rowcount += rows
		}
	}

	if cur.src.Kind() == driver.Rows {
		cols, err := cur.src.Columns()
		if err != nil {
			return nil, wrapStatementError(err, sql)
		}
		desc := make([]ColumnDescription, len(cols))
		names := make([]string, len(cols))
		types := make([]string, len(cols))
		for i, col := range cols {
			td, err := cur.cache.Describe(ctx, col.OID)
			if err != nil {
				return nil, err
			}
			desc[i] = ColumnDescription{
				Name:         col.Name,
				TypeCode:     td.Name,
				InternalSize: td.Size,
			}
			names[i] = col.Name
			types[i] = td.Name
		}
		cur.Description = desc
		cur.colNames = names
		cur.colTypes = types
		cur.RowCount = cur.src.NumRows()
		cur.LastRowID = 0
		cur.factory = cur.strategy(names)
	} else {
		cur.RowCount = rowcount
		cur.LastRowID = 0
		if id, ok := cur.src.LastRowID(); ok {
			cur.LastRowID = id
		}
	}
	return cur, nil
}

// FetchOne returns the next row of the current result, or nil when the
// result is exhausted.
func (cur *Cursor) FetchOne(ctx context.Context) (Row, error) {
	rows, err := cur.FetchMany(ctx, 1, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FetchAll returns all remaining rows of the current result.
func (cur *Cursor) FetchAll(ctx context.Context) ([]Row, error) {
	return cur.FetchMany(ctx, -1, false)
}

// FetchMany returns up to size rows of the current result. size == 0
// means the cursor's Arraysize, size < 0 all remaining rows. With keep
// set, size becomes the new Arraysize. The returned slice may be
// shorter than requested at the end of the result, or empty.
func (cur *Cursor) FetchMany(ctx context.Context, size int, keep bool) ([]Row, error) {
	if cur.closed {
		return nil, opError("cursor has been closed")
	}
	if size == 0 {
		size = cur.Arraysize
	}
	if keep {
		cur.Arraysize = size
	}
	if cur.factory == nil {
		return nil, newError(ErrProgramming, "no result set to fetch from")
	}
	raw, err := cur.src.Fetch(ctx, size)
	if err != nil {
		return nil, wrapStatementError(err, "")
	}
	rows := make([]Row, 0, len(raw))
	for _, rr := range raw {
		values := make([]any, len(rr))
		for i, cell := range rr {
			v, err := cur.cache.Typecast(cur.colTypes[i], cell)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		rows = append(rows, cur.factory(values))
	}
	return rows, nil
}

// Next returns the next row and whether one was available, for use in
// iteration loops.
func (cur *Cursor) Next(ctx context.Context) (Row, bool, error) {
	row, err := cur.FetchOne(ctx)
	if err != nil {
		return nil, false, err
	}
	return row, row != nil, nil
}

// CallProc calls the stored procedure with the given positional
// arguments and returns them unchanged; output and input/output
// parameters are not supported. A result set produced by the procedure
// is available through the fetch methods.
func (cur *Cursor) CallProc(ctx context.Context, name string, args ...any) ([]any, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("%s,", len(args)), ",")
	query := fmt.Sprintf(`SELECT * FROM "%s"(%s)`, name, placeholders)
	if _, err := cur.executeBatch(ctx, query, []paramSet{{pos: args}}); err != nil {
		return nil, err
	}
	return args, nil
}

// NextSet would advance to the next of multiple result sets; these are
// not supported.
func (cur *Cursor) NextSet() error {
	return newError(ErrNotSupported, "multiple result sets are not supported")
}

// SetInputSizes would predefine memory areas for parameters; size
// hints are not supported.
func (cur *Cursor) SetInputSizes(sizes ...int) error {
	return newError(ErrNotSupported, "input size hints are not supported")
}

// SetOutputSize would set a column buffer size for large columns; size
// hints are not supported.
func (cur *Cursor) SetOutputSize(size int, column int) error {
	return newError(ErrNotSupported, "output size hints are not supported")
}

// Close releases the statement handle and resets the cursor's result
// state. The cursor must not be used afterwards; closing it again is a
// no-op.
func (cur *Cursor) Close() error {
	if cur.closed {
		return nil
	}
	cur.closed = true
	cur.Description = nil
	cur.colNames = nil
	cur.colTypes = nil
	cur.RowCount = -1
	cur.LastRowID = 0
	cur.factory = nil
	return cur.src.Close()
}
