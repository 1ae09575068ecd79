package pgxdriver

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Cito/pygresql/pgdb"
	"github.com/Cito/pygresql/pgdb/driver"
)

// Source is one statement handle. Results are read to completion on
// execute and buffered, so fetching never blocks on the wire.
type Source struct {
	pg       *pgconn.PgConn
	kind     driver.ResultKind
	cols     []driver.Column
	rows     [][]*string
	pos      int
	affected int
	lastOID  int64
	hasOID   bool
	closed   bool
}

func (s *Source) Execute(ctx context.Context, sql string) (int, error) {
	if s.closed {
		return 0, &pgdb.DBError{Kind: pgdb.ErrOperational, Msg: "statement source is closed"}
	}
	s.kind = driver.Ack
	s.cols = nil
	s.rows = nil
	s.pos = 0
	s.affected = 0
	s.hasOID = false
	s.lastOID = 0

	res := s.pg.ExecParams(ctx, sql, nil, nil, nil, nil).Read()
	if res.Err != nil {
		return 0, mapError(res.Err, sql)
	}

	if len(res.FieldDescriptions) > 0 {
		s.kind = driver.Rows
		s.cols = make([]driver.Column, len(res.FieldDescriptions))
		for i, fd := range res.FieldDescriptions {
			s.cols[i] = driver.Column{Name: string(fd.Name), OID: fd.DataTypeOID}
		}
		s.rows = make([][]*string, len(res.Rows))
		for i, raw := range res.Rows {
			row := make([]*string, len(raw))
			for j, cell := range raw {
				if cell != nil {
					v := string(cell)
					row[j] = &v
				}
			}
			s.rows[i] = row
		}
		return 0, nil
	}

	tag := res.CommandTag
	switch {
	case tag.Insert() || tag.Update() || tag.Delete():
		s.kind = driver.RowsAffected
		s.affected = int(tag.RowsAffected())
		if tag.Insert() {
			s.lastOID, s.hasOID = insertOID(tag.String())
		}
		return s.affected, nil
	case isDDLTag(tag.String()):
		s.kind = driver.DDL
		return 0, nil
	}
	s.kind = driver.Ack
	return 0, nil
}

// insertOID extracts the row OID from an INSERT command tag of the form
// "INSERT <oid> <count>". Servers report 0 unless the table was created
// WITH OIDS.
func insertOID(tag string) (int64, bool) {
	parts := strings.Fields(tag)
	if len(parts) != 3 || parts[0] != "INSERT" {
		return 0, false
	}
	oid, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return oid, true
}

func isDDLTag(tag string) bool {
	switch strings.SplitN(tag, " ", 2)[0] {
	case "CREATE", "ALTER", "DROP", "TRUNCATE", "COMMENT", "GRANT", "REVOKE":
		return true
	}
	return false
}

func (s *Source) Kind() driver.ResultKind { return s.kind }

func (s *Source) NumRows() int { return len(s.rows) }

func (s *Source) Columns() ([]driver.Column, error) {
	if s.kind != driver.Rows {
		return nil, &pgdb.DBError{Kind: pgdb.ErrProgramming, Msg: "no result set"}
	}
	return s.cols, nil
}

func (s *Source) Fetch(ctx context.Context, n int) ([][]*string, error) {
	if s.kind != driver.Rows {
		return nil, &pgdb.DBError{Kind: pgdb.ErrProgramming, Msg: "no result set"}
	}
	if n < 0 || n > len(s.rows)-s.pos {
		n = len(s.rows) - s.pos
	}
	out := s.rows[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *Source) LastRowID() (int64, bool) { return s.lastOID, s.hasOID }

func (s *Source) Close() error {
	s.closed = true
	s.rows = nil
	s.cols = nil
	return nil
}
