package pgdb

import (
	"sort"
	"strings"
	"time"
)

// Type is an immutable named set of server type names. The server's
// types are dynamic, so type names rather than numeric codes act as the
// type codes of this layer; a Type groups the names belonging to one
// standard category.
type Type struct {
	names map[string]bool
}

func newType(names string) Type {
	m := make(map[string]bool)
	for _, n := range strings.Fields(names) {
		m[n] = true
	}
	return Type{names: m}
}

// Contains reports whether the set includes the given type name.
func (t Type) Contains(name string) bool { return t.names[name] }

// Equal reports whether both sets hold exactly the same type names.
func (t Type) Equal(other Type) bool {
	if len(t.names) != len(other.names) {
		return false
	}
	for n := range t.names {
		if !other.names[n] {
			return false
		}
	}
	return true
}

// Names returns the member type names in sorted order.
func (t Type) Names() []string {
	out := make([]string, 0, len(t.names))
	for n := range t.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Standard type categories.
var (
	StringType   = newType("char bpchar name text varchar")
	BinaryType   = newType("bytea")
	NumberType   = newType("int2 int4 serial int8 float4 float8 numeric money")
	DateTimeType = newType("date time timetz timestamp timestamptz datetime abstime interval tinterval timespan reltime")
	RowIDType    = newType("oid oid8")
)

// More specific type categories.
var (
	BoolType      = newType("bool")
	SmallIntType  = newType("int2")
	IntegerType   = newType("int2 int4 int8 serial")
	LongType      = newType("int8")
	FloatType     = newType("float4 float8")
	NumericType   = newType("numeric")
	MoneyType     = newType("money")
	DateType      = newType("date")
	TimeType      = newType("time timetz")
	TimestampType = newType("timestamp timestamptz datetime abstime")
	IntervalType  = newType("interval tinterval timespan reltime")
)

// Binary marks a parameter value as binary data, routing it through the
// native connection's bytea escaping rather than string escaping.
type Binary []byte

// Date constructs a date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Time constructs a time-of-day value.
func Time(hour, minute, second, microsecond int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, second, microsecond*1000, time.UTC)
}

// Timestamp constructs a timestamp value.
func Timestamp(year int, month time.Month, day, hour, minute, second, microsecond int) time.Time {
	return time.Date(year, month, day, hour, minute, second, microsecond*1000, time.UTC)
}

// DateFromTicks constructs a date value from seconds since the epoch.
func DateFromTicks(ticks int64) time.Time {
	t := time.Unix(ticks, 0)
	return Date(t.Year(), t.Month(), t.Day())
}

// TimeFromTicks constructs a time value from seconds since the epoch.
func TimeFromTicks(ticks int64) time.Time {
	t := time.Unix(ticks, 0)
	return Time(t.Hour(), t.Minute(), t.Second(), 0)
}

// TimestampFromTicks constructs a timestamp value from seconds since
// the epoch.
func TimestampFromTicks(ticks int64) time.Time {
	t := time.Unix(ticks, 0)
	return Timestamp(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0)
}
