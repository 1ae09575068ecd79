package pgdb

import (
	"errors"
	"fmt"
)

// The error taxonomy follows the standard client-interface hierarchy:
//
//	ErrError
//	├── ErrWarning
//	├── ErrInterface
//	└── ErrDatabase
//	    ├── ErrData
//	    ├── ErrOperational
//	    ├── ErrIntegrity
//	    ├── ErrInternal
//	    ├── ErrProgramming
//	    └── ErrNotSupported
//
// Every error returned by this package matches its own kind and all
// ancestors under errors.Is, so errors.Is(err, ErrDatabase) holds for
// any server-side failure regardless of its specific kind.

type errKind struct {
	name   string
	parent error
}

func (k *errKind) Error() string { return k.name }

func (k *errKind) Unwrap() error { return k.parent }

var (
	// ErrError is the root of the error taxonomy.
	ErrError error = &errKind{name: "error"}

	// ErrWarning marks important non-fatal notices.
	ErrWarning error = &errKind{name: "warning", parent: ErrError}

	// ErrInterface marks client-side misuse of the interface, such as a
	// parameter of an unrenderable type.
	ErrInterface error = &errKind{name: "interface error", parent: ErrError}

	// ErrDatabase marks failures related to the database itself.
	ErrDatabase error = &errKind{name: "database error", parent: ErrError}

	// ErrData marks problems with the processed data, such as an
	// unparsable numeric value.
	ErrData error = &errKind{name: "data error", parent: ErrDatabase}

	// ErrOperational marks failures of the connection or transaction
	// infrastructure, including use of a closed connection.
	ErrOperational error = &errKind{name: "operational error", parent: ErrDatabase}

	// ErrIntegrity marks relational integrity violations.
	ErrIntegrity error = &errKind{name: "integrity error", parent: ErrDatabase}

	// ErrInternal marks internal errors of the database.
	ErrInternal error = &errKind{name: "internal error", parent: ErrDatabase}

	// ErrProgramming marks errors in the submitted SQL or its
	// parameters, such as a placeholder without a matching value.
	ErrProgramming error = &errKind{name: "programming error", parent: ErrDatabase}

	// ErrNotSupported marks use of intentionally unimplemented optional
	// surface, such as multiple result sets.
	ErrNotSupported error = &errKind{name: "not supported", parent: ErrDatabase}
)

// DBError is a concrete error belonging to the taxonomy. It matches its
// Kind (and that kind's ancestors) as well as its Cause under errors.Is
// and errors.As.
type DBError struct {
	// Kind is the taxonomy sentinel this error belongs to.
	Kind error
	// Msg describes the failure.
	Msg string
	// SQL is the literal statement being executed, when applicable.
	SQL string
	// SQLState is the server error code, empty for client-side errors.
	SQLState string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *DBError) Error() string {
	msg := e.Msg
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return fmt.Sprintf("pgdb: %s: %s", e.Kind.Error(), msg)
}

func (e *DBError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, msg string) *DBError {
	return &DBError{Kind: kind, Msg: msg}
}

func opError(msg string) *DBError {
	return newError(ErrOperational, msg)
}

// wrapStatementError reports a failure while executing sql. Errors
// already in the taxonomy pass through, gaining the failing statement
// when they do not carry one; anything else becomes a database error.
func wrapStatementError(err error, sql string) error {
	if errors.Is(err, ErrError) {
		var dberr *DBError
		if errors.As(err, &dberr) && dberr.SQL == "" {
			dberr.SQL = sql
		}
		return err
	}
	return &DBError{
		Kind:  ErrDatabase,
		Msg:   fmt.Sprintf("error in %q: %s", sql, err),
		SQL:   sql,
		Cause: err,
	}
}

// wrapControlError reports a failure during transaction control.
// Taxonomy errors pass through; anything else becomes an operational
// error with the given message.
func wrapControlError(err error, msg string) error {
	if errors.Is(err, ErrError) {
		return err
	}
	return &DBError{Kind: ErrOperational, Msg: msg, Cause: err}
}

// Exceptions groups the taxonomy sentinels under their standard names,
// for code that receives a Connection and wants the matching error
// kinds without importing this package's variables directly.
type Exceptions struct {
	Error             error
	Warning           error
	InterfaceError    error
	DatabaseError     error
	DataError         error
	OperationalError  error
	IntegrityError    error
	InternalError     error
	ProgrammingError  error
	NotSupportedError error
}

var pkgExceptions = Exceptions{
	Error:             ErrError,
	Warning:           ErrWarning,
	InterfaceError:    ErrInterface,
	DatabaseError:     ErrDatabase,
	DataError:         ErrData,
	OperationalError:  ErrOperational,
	IntegrityError:    ErrIntegrity,
	InternalError:     ErrInternal,
	ProgrammingError:  ErrProgramming,
	NotSupportedError: ErrNotSupported,
}
