package pgdb

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/Cito/pygresql/pgdb/driver"
)

// fakeConn is a scripted native connection for tests. Statements are
// answered from the script map, with built-in handling for transaction
// control and catalog lookups; everything executed is recorded in log.
type fakeConn struct {
	script map[string]fakeResult
	types  map[uint32]fakeType
	log    []string
	srcErr error
	closed bool
}

type fakeType struct {
	name string
	size string
}

type fakeResult struct {
	kind     driver.ResultKind
	cols     []driver.Column
	rows     [][]*string
	affected int
	oid      int64
	hasOID   bool
	err      error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		script: make(map[string]fakeResult),
		types: map[uint32]fakeType{
			16:   {"bool", "1"},
			17:   {"bytea", "-1"},
			20:   {"int8", "8"},
			23:   {"int4", "4"},
			25:   {"text", "-1"},
			701:  {"float8", "8"},
			790:  {"money", "8"},
			1700: {"numeric", "-1"},
		},
	}
}

func (c *fakeConn) count(sql string) int {
	n := 0
	for _, s := range c.log {
		if s == sql {
			n++
		}
	}
	return n
}

func (c *fakeConn) Source() (driver.Source, error) {
	if c.srcErr != nil {
		return nil, c.srcErr
	}
	return &fakeSource{conn: c}, nil
}

func (c *fakeConn) EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (c *fakeConn) EscapeBytea(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}

func (c *fakeConn) UnescapeBytea(s string) ([]byte, error) {
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("unexpected bytea format: %q", s)
	}
	return hex.DecodeString(s[2:])
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

type fakeSource struct {
	conn   *fakeConn
	res    fakeResult
	pos    int
	closed bool
}

func (s *fakeSource) Execute(ctx context.Context, sql string) (int, error) {
	c := s.conn
	c.log = append(c.log, sql)
	if r, ok := c.script[sql]; ok {
		if r.err != nil {
			return 0, r.err
		}
		s.res = r
		s.pos = 0
		return r.affected, nil
	}
	switch {
	case sql == "BEGIN" || sql == "COMMIT" || sql == "ROLLBACK":
		s.res = fakeResult{kind: driver.Ack}
		s.pos = 0
		return 0, nil
	case strings.HasPrefix(sql, "SELECT typname, typlen FROM pg_type WHERE oid="):
		n, err := strconv.ParseUint(strings.TrimPrefix(sql, "SELECT typname, typlen FROM pg_type WHERE oid="), 10, 32)
		if err != nil {
			return 0, err
		}
		t, ok := c.types[uint32(n)]
		if !ok {
			return 0, fmt.Errorf("unknown type oid %d", n)
		}
		s.res = fakeResult{
			kind: driver.Rows,
			cols: []driver.Column{{Name: "typname"}, {Name: "typlen"}},
			rows: [][]*string{{&t.name, &t.size}},
		}
		s.pos = 0
		return 0, nil
	}
	return 0, fmt.Errorf("unscripted statement: %s", sql)
}

func (s *fakeSource) Kind() driver.ResultKind { return s.res.kind }

func (s *fakeSource) NumRows() int { return len(s.res.rows) }

func (s *fakeSource) Columns() ([]driver.Column, error) {
	if s.res.kind != driver.Rows {
		return nil, fmt.Errorf("no result set")
	}
	return s.res.cols, nil
}

func (s *fakeSource) Fetch(ctx context.Context, n int) ([][]*string, error) {
	if s.res.kind != driver.Rows {
		return nil, fmt.Errorf("no result set")
	}
	if n < 0 || n > len(s.res.rows)-s.pos {
		n = len(s.res.rows) - s.pos
	}
	out := s.res.rows[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *fakeSource) LastRowID() (int64, bool) { return s.res.oid, s.res.hasOID }

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func text(s string) *string { return &s }

func textRow(cells ...*string) []*string { return cells }

// selectResult builds a Rows result over the named columns.
func selectResult(cols []driver.Column, rows ...[]*string) fakeResult {
	return fakeResult{kind: driver.Rows, cols: cols, rows: rows}
}
