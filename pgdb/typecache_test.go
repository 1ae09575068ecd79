package pgdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeResolvesAndCaches(t *testing.T) {
	ctx := context.Background()
	cnx := newFakeConn()
	tc, err := newTypeCache(cnx)
	require.NoError(t, err)

	d, err := tc.Describe(ctx, 23)
	require.NoError(t, err)
	assert.Equal(t, TypeDescription{Name: "int4", Size: 4}, d)
	assert.Equal(t, 1, cnx.count("SELECT typname, typlen FROM pg_type WHERE oid=23"))

	// second and third resolutions are cache hits
	for i := 0; i < 2; i++ {
		d, err = tc.Describe(ctx, 23)
		require.NoError(t, err)
		assert.Equal(t, "int4", d.Name)
	}
	assert.Equal(t, 1, cnx.count("SELECT typname, typlen FROM pg_type WHERE oid=23"))

	d, err = tc.Describe(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, TypeDescription{Name: "text", Size: -1}, d)
}

func TestDescribeUnknownOID(t *testing.T) {
	tc, err := newTypeCache(newFakeConn())
	require.NoError(t, err)
	_, err = tc.Describe(context.Background(), 999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabase)
}
