package pgdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Cito/pygresql/pgdb/driver"
)

// TypeDescription is the resolved descriptor of a server type.
type TypeDescription struct {
	Name string
	// Size is the storage size of the type, -1 for variable-size types.
	Size int
}

// TypeCache resolves server type OIDs to descriptors, one catalog
// lookup per OID for the lifetime of the owning connection. It is
// shared read-mostly by all cursors of a connection and is not safe for
// concurrent use from multiple goroutines.
type TypeCache struct {
	cnx   driver.Conn
	src   driver.Source
	types map[uint32]TypeDescription
}

func newTypeCache(cnx driver.Conn) (*TypeCache, error) {
	src, err := cnx.Source()
	if err != nil {
		return nil, opError("invalid connection")
	}
	return &TypeCache{
		cnx:   cnx,
		src:   src,
		types: make(map[uint32]TypeDescription),
	}, nil
}

// Describe resolves a type OID, hitting the catalog only on the first
// lookup. Returned descriptors are cached forever and must be treated
// as immutable.
func (tc *TypeCache) Describe(ctx context.Context, oid uint32) (TypeDescription, error) {
	if d, ok := tc.types[oid]; ok {
		return d, nil
	}
	sql := fmt.Sprintf("SELECT typname, typlen FROM pg_type WHERE oid=%d", oid)
	if _, err := tc.src.Execute(ctx, sql); err != nil {
		return TypeDescription{}, wrapStatementError(err, sql)
	}
	rows, err := tc.src.Fetch(ctx, 1)
	if err != nil {
		return TypeDescription{}, wrapStatementError(err, sql)
	}
	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][0] == nil || rows[0][1] == nil {
		return TypeDescription{}, newError(ErrInternal, fmt.Sprintf("unknown type oid %d", oid))
	}
	size, err := strconv.Atoi(*rows[0][1])
	if err != nil {
		return TypeDescription{}, newError(ErrInternal, fmt.Sprintf("bad typlen for oid %d: %q", oid, *rows[0][1]))
	}
	d := TypeDescription{Name: *rows[0][0], Size: size}
	tc.types[oid] = d
	return d, nil
}

// Typecast converts the raw text of one column value to the typed value
// for the given type name. NULL passes through as nil, and type names
// without a registered cast pass through as text.
func (tc *TypeCache) Typecast(typ string, value *string) (any, error) {
	if value == nil {
		return nil, nil
	}
	if typ == "bytea" {
		b, err := tc.cnx.UnescapeBytea(*value)
		if err != nil {
			return nil, newError(ErrData, fmt.Sprintf("invalid bytea value: %s", err))
		}
		return b, nil
	}
	cast, ok := casts[typ]
	if !ok {
		return *value, nil
	}
	return cast(*value)
}
