// Package pgdb is a synchronous, DB-API style access layer for
// PostgreSQL-family servers, built on a native connection primitive
// that implements the wire protocol (see the driver subpackage and
// pgxdriver).
//
// Basic usage:
//
//	con, err := pgxdriver.Open(ctx, "postgres://user@localhost/db")
//	cur, err := con.Cursor()
//	_, err = cur.Execute(ctx, "SELECT name, balance FROM accounts WHERE id=%s", 42)
//	row, err := cur.FetchOne(ctx)
//	err = con.Commit(ctx)
//
// Parameters are rendered as quoted literals and substituted textually
// into the statement template: %s positionally, %(name)s from a map
// with NamedExecute. There is no protocol-level parameter binding; the
// quoting engine either escapes a value safely or rejects it with an
// interface error.
//
// The first statement executed since the last commit or rollback opens
// an implicit transaction; Commit and Rollback end it. RunInTx and
// WithCursor provide scoped forms with guaranteed cleanup.
//
// Result rows are materialized from the server's raw column text: each
// column's type OID is resolved to a type name through a per-connection
// type cache, the registered cast for that name produces the typed
// value, and a row-construction strategy shapes the row (*Record by
// default, map[string]any with MapStrategy).
//
// A Connection and the cursors created from it must be confined to one
// goroutine; the package itself may be used from many goroutines with
// separate connections.
package pgdb

// Interface compliance level, following the DB-API 2.0 convention.
const APILevel = "2.0"

// ThreadSafety is 1: the package may be shared between goroutines, a
// connection may not.
const ThreadSafety = 1

// ParamStyle names the placeholder format understood by the statement
// templates: extended percent-style codes (%s and %(name)s).
const ParamStyle = "pyformat"
