package pgxdriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cito/pygresql/pgdb"
)

func TestEscapeString(t *testing.T) {
	c := &Conn{}
	assert.Equal(t, "hello", c.EscapeString("hello"))
	assert.Equal(t, "O''Brien", c.EscapeString("O'Brien"))
	assert.Equal(t, "''''", c.EscapeString("''"))
	assert.Equal(t, `back\slash`, c.EscapeString(`back\slash`))
}

func TestEscapeBytea(t *testing.T) {
	c := &Conn{}
	assert.Equal(t, `\x`, c.EscapeBytea(nil))
	assert.Equal(t, `\xdeadbeef`, c.EscapeBytea([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, `\x0027ff`, c.EscapeBytea([]byte{0x00, 0x27, 0xff}))
}

func TestUnescapeBytea(t *testing.T) {
	c := &Conn{}

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"hex", `\xdeadbeef`, []byte{0xde, 0xad, 0xbe, 0xef}},
		{"hex empty", `\x`, []byte{}},
		{"plain", "abc", []byte("abc")},
		{"octal", `\000\047\377`, []byte{0x00, 0x27, 0xff}},
		{"backslash", `a\\b`, []byte(`a\b`)},
		{"mixed", `ab\012\\`, []byte{'a', 'b', 0x0a, '\\'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.UnescapeBytea(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := c.UnescapeBytea(`bad\9`)
	assert.Error(t, err)
	_, err = c.UnescapeBytea(`\xzz`)
	assert.Error(t, err)
}

func TestSourceOnClosedConn(t *testing.T) {
	c := &Conn{}
	_, err := c.Source()
	require.Error(t, err)
	assert.ErrorIs(t, err, pgdb.ErrOperational)
}

func TestInsertOID(t *testing.T) {
	oid, ok := insertOID("INSERT 0 1")
	assert.True(t, ok)
	assert.Equal(t, int64(0), oid)

	oid, ok = insertOID("INSERT 16384 1")
	assert.True(t, ok)
	assert.Equal(t, int64(16384), oid)

	_, ok = insertOID("UPDATE 1")
	assert.False(t, ok)
	_, ok = insertOID("INSERT")
	assert.False(t, ok)
	_, ok = insertOID("INSERT x 1")
	assert.False(t, ok)
}

func TestIsDDLTag(t *testing.T) {
	for _, tag := range []string{"CREATE TABLE", "ALTER TABLE", "DROP TABLE", "TRUNCATE TABLE", "GRANT", "REVOKE", "COMMENT"} {
		assert.True(t, isDDLTag(tag), tag)
	}
	for _, tag := range []string{"SELECT 1", "INSERT 0 1", "UPDATE 2", "DELETE 1", "BEGIN", "SET"} {
		assert.False(t, isDDLTag(tag), tag)
	}
}
