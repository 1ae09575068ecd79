package pgdb

import (
	"context"
	"errors"

	"github.com/Cito/pygresql/pgdb/driver"
)

// Connection owns one native connection handle, its type cache, and the
// open/closed transaction state. It is the factory for cursors. A
// connection and its cursors must only be used by one goroutine at a
// time; use separate connections for concurrent access.
type Connection struct {
	// RowStrategy is the row-construction strategy handed to new
	// cursors. Defaults to RecordStrategy.
	RowStrategy RowStrategy

	cnx       driver.Conn
	tx        bool
	typeCache *TypeCache
}

// Connect wraps an established native connection in a Connection. The
// native layer is responsible for opening and authenticating the
// connection (see pgxdriver.Open for the usual entry point).
func Connect(cnx driver.Conn) (*Connection, error) {
	tc, err := newTypeCache(cnx)
	if err != nil {
		return nil, err
	}
	return &Connection{
		RowStrategy: RecordStrategy,
		cnx:         cnx,
		typeCache:   tc,
	}, nil
}

// TypeCache returns the connection's type cache.
func (c *Connection) TypeCache() *TypeCache { return c.typeCache }

// Exceptions returns the error taxonomy under its standard names.
func (c *Connection) Exceptions() Exceptions { return pkgExceptions }

// Cursor returns a new cursor on this connection.
func (c *Connection) Cursor() (*Cursor, error) {
	if c.cnx == nil {
		return nil, opError("connection has been closed")
	}
	src, err := c.cnx.Source()
	if err != nil {
		return nil, opError("invalid connection")
	}
	return &Cursor{
		RowCount:  -1,
		Arraysize: 1,
		con:       c,
		src:       src,
		cache:     c.typeCache,
		q:         quoter{cnx: c.cnx},
		strategy:  c.RowStrategy,
	}, nil
}

// begin opens the implicit transaction if none is open. It runs at most
// once per open-transaction period no matter how many statements
// follow.
func (c *Connection) begin(ctx context.Context) error {
	if c.cnx == nil {
		return opError("connection has been closed")
	}
	if c.tx {
		return nil
	}
	if err := c.control(ctx, "BEGIN", "can't start transaction"); err != nil {
		return err
	}
	c.tx = true
	return nil
}

// Commit commits the pending transaction. Without one it is a no-op.
func (c *Connection) Commit(ctx context.Context) error {
	if c.cnx == nil {
		return opError("connection has been closed")
	}
	if !c.tx {
		return nil
	}
	c.tx = false
	return c.control(ctx, "COMMIT", "can't commit")
}

// Rollback rolls back the pending transaction. Without one it is a
// no-op.
func (c *Connection) Rollback(ctx context.Context) error {
	if c.cnx == nil {
		return opError("connection has been closed")
	}
	if !c.tx {
		return nil
	}
	c.tx = false
	return c.control(ctx, "ROLLBACK", "can't rollback")
}

func (c *Connection) control(ctx context.Context, sql, msg string) error {
	src, err := c.cnx.Source()
	if err != nil {
		return opError(msg)
	}
	defer src.Close()
	if _, err := src.Execute(ctx, sql); err != nil {
		if errors.Is(err, ErrDatabase) {
			return err
		}
		return wrapControlError(err, msg)
	}
	return nil
}

// Close rolls back any pending transaction, discarding an error from
// that attempt, then releases the native connection. Any further
// operation on the connection, including Close itself, fails with an
// operational error.
func (c *Connection) Close(ctx context.Context) error {
	if c.cnx == nil {
		return opError("connection has been closed")
	}
	if c.tx {
		_ = c.Rollback(ctx)
	}
	err := c.cnx.Close(ctx)
	c.cnx = nil
	return err
}

// RunInTx runs fn on the connection, committing on success and rolling
// back when fn returns an error or panics. It does not close the
// connection.
func (c *Connection) RunInTx(ctx context.Context, fn func(*Connection) error) error {
	if c.cnx == nil {
		return opError("connection has been closed")
	}
	settled := false
	defer func() {
		if !settled {
			_ = c.Rollback(ctx)
		}
	}()
	if err := fn(c); err != nil {
		settled = true
		_ = c.Rollback(ctx)
		return err
	}
	settled = true
	return c.Commit(ctx)
}

// WithCursor runs fn with a new cursor, closing it on every exit path.
func (c *Connection) WithCursor(fn func(*Cursor) error) error {
	cur, err := c.Cursor()
	if err != nil {
		return err
	}
	defer cur.Close()
	return fn(cur)
}
