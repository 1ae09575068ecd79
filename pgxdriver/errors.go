package pgxdriver

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Cito/pygresql/pgdb"
)

// mapError converts a pgconn-level failure into the pgdb error
// taxonomy, keyed by SQLSTATE class for server errors.
func mapError(err error, sql string) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return &pgdb.DBError{
			Kind:     kindForSQLState(pgerr.Code),
			Msg:      pgerr.Message,
			SQL:      sql,
			SQLState: pgerr.Code,
			Cause:    err,
		}
	}
	return &pgdb.DBError{Kind: pgdb.ErrOperational, Msg: err.Error(), SQL: sql, Cause: err}
}

// kindForSQLState maps a SQLSTATE code to its taxonomy kind.
func kindForSQLState(code string) error {
	if len(code) < 2 {
		return pgdb.ErrDatabase
	}
	switch code[:2] {
	case "01":
		return pgdb.ErrWarning
	case "0A":
		return pgdb.ErrNotSupported
	case "20", "21", "22":
		return pgdb.ErrData
	case "23", "27", "44":
		return pgdb.ErrIntegrity
	case "08", "0B", "25", "28", "2D", "3B", "40", "53", "54", "55", "57", "58":
		return pgdb.ErrOperational
	case "0Z", "2B", "2F", "34", "38", "39", "3D", "3F", "42":
		return pgdb.ErrProgramming
	case "XX":
		return pgdb.ErrInternal
	}
	return pgdb.ErrDatabase
}
