// Package pgxdriver implements the pgdb native-connection interface on
// top of pgconn, the low-level PostgreSQL connection of pgx. Statements
// run over the extended protocol with text-format results, so the pgdb
// layer sees exactly the raw column text it expects to cast.
package pgxdriver

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Cito/pygresql/pgdb"
	"github.com/Cito/pygresql/pgdb/driver"
)

// Conn adapts a *pgconn.PgConn to driver.Conn.
type Conn struct {
	pg *pgconn.PgConn
}

// Connect opens a native connection using a pgx connection string
// (URL or key/value DSN form).
func Connect(ctx context.Context, connString string) (*Conn, error) {
	pg, err := pgconn.Connect(ctx, connString)
	if err != nil {
		return nil, mapError(err, "")
	}
	return &Conn{pg: pg}, nil
}

// Open connects and wraps the result in a pgdb Connection.
func Open(ctx context.Context, connString string) (*pgdb.Connection, error) {
	cnx, err := Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	con, err := pgdb.Connect(cnx)
	if err != nil {
		_ = cnx.Close(ctx)
		return nil, err
	}
	return con, nil
}

// PgConn exposes the underlying pgconn connection.
func (c *Conn) PgConn() *pgconn.PgConn { return c.pg }

func (c *Conn) Source() (driver.Source, error) {
	if c.pg == nil || c.pg.IsClosed() {
		return nil, &pgdb.DBError{Kind: pgdb.ErrOperational, Msg: "connection is closed"}
	}
	return &Source{pg: c.pg}, nil
}

// EscapeString doubles embedded single quotes. This assumes the server
// runs with standard_conforming_strings on, the default since 9.1.
func (c *Conn) EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeBytea renders b in the hex input format.
func (c *Conn) EscapeBytea(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}

// UnescapeBytea decodes the server's text output for bytea, handling
// both the hex format and the legacy octal escape format.
func (c *Conn) UnescapeBytea(s string) ([]byte, error) {
	if strings.HasPrefix(s, `\x`) {
		return hex.DecodeString(s[2:])
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out = append(out, s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\\' {
			out = append(out, '\\')
			i++
			continue
		}
		if i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			out = append(out, (s[i+1]-'0')<<6|(s[i+2]-'0')<<3|(s[i+3]-'0'))
			i += 3
			continue
		}
		return nil, fmt.Errorf("invalid bytea escape at offset %d", i)
	}
	return out, nil
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func (c *Conn) Close(ctx context.Context) error {
	if c.pg == nil {
		return nil
	}
	err := c.pg.Close(ctx)
	c.pg = nil
	return err
}
