// Package driver defines the interface between the pgdb access layer and
// the native connection primitive that implements the wire protocol,
// authentication, and raw statement execution.
//
// Implementations live outside this package (see pgxdriver for the
// pgx-backed one). The pgdb package never opens sockets itself; it drives
// a Conn and the Sources obtained from it.
package driver

import "context"

// ResultKind classifies the outcome of executing one statement.
type ResultKind int

const (
	// Ack indicates a statement with no meaningful return, such as SET,
	// BEGIN, or COMMIT.
	Ack ResultKind = iota

	// DDL indicates a statement that mutated the database schema.
	DDL

	// RowsAffected indicates a statement that reports a count of
	// affected rows but returns none.
	RowsAffected

	// Rows indicates a row-returning statement.
	Rows
)

// Column describes one result column as reported by the server.
type Column struct {
	Name string
	// OID is the server-assigned identifier of the column's data type.
	OID uint32
}

// Conn is an established native connection.
//
// A Conn and every Source obtained from it must only be used by one
// goroutine at a time.
type Conn interface {
	// Source returns a new statement handle on the connection. Each
	// Source has an independent lifetime; closing one does not affect
	// its siblings.
	Source() (Source, error)

	// EscapeString escapes s for inclusion in a single-quoted SQL
	// string literal, without the surrounding quotes.
	EscapeString(s string) string

	// EscapeBytea renders b in the text input format of a bytea
	// literal, without the surrounding quotes.
	EscapeBytea(b []byte) string

	// UnescapeBytea reverses the server's text output format for bytea
	// values.
	UnescapeBytea(s string) ([]byte, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Source is one statement handle together with its current result.
type Source interface {
	// Execute runs sql and replaces the current result. It returns the
	// affected row count for RowsAffected statements and 0 otherwise.
	Execute(ctx context.Context, sql string) (int, error)

	// Kind reports the classification of the current result.
	Kind() ResultKind

	// NumRows reports the total row count of a Rows result.
	NumRows() int

	// Columns lists the columns of a Rows result.
	Columns() ([]Column, error)

	// Fetch returns up to n rows of raw column text from the current
	// result, advancing the read position. A nil cell is SQL NULL.
	// n < 0 fetches all remaining rows.
	Fetch(ctx context.Context, n int) ([][]*string, error)

	// LastRowID reports the row identifier (OID) of the last inserted
	// row, when the server reported one.
	LastRowID() (int64, bool)

	// Close releases the statement handle.
	Close() error
}
