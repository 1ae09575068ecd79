package pgdb

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/inf.v0"

	"github.com/Cito/pygresql/pgdb/driver"
)

// Literal is implemented by values that know how to render themselves
// as a SQL literal. It is the only extension point of the quoting
// engine; any value outside the fixed set of supported kinds that does
// not implement it is rejected with an interface error.
type Literal interface {
	PGRepr() string
}

const timestampFormat = "2006-01-02 15:04:05.999999-07:00"

// quoter renders parameter values as safely escaped SQL literals using
// the native connection's escaping primitives.
type quoter struct {
	cnx driver.Conn
}

// quote converts one parameter value into a SQL literal. Injection
// safety of the whole statement pipeline rests on this covering every
// value that reaches substitution.
func (q quoter) quote(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + q.cnx.EscapeString(v) + "'", nil
	case Binary:
		return "'" + q.cnx.EscapeBytea(v) + "'", nil
	case []byte:
		return "'" + q.cnx.EscapeBytea(v) + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return quoteFloat(float64(v)), nil
	case float64:
		return quoteFloat(v), nil
	case *inf.Dec:
		return v.String(), nil
	case time.Time:
		return "'" + v.Format(timestampFormat) + "'", nil
	case time.Duration:
		return "'" + formatInterval(v) + "'", nil
	case []any:
		return q.quoteList(len(v), func(i int) any { return v[i] })
	case Literal:
		return v.PGRepr(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return q.quoteList(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}
	return "", newError(ErrInterface, fmt.Sprintf("do not know how to handle type %T", v))
}

// quoteList renders a sequence as a parenthesized comma-separated list
// of literals. This is the IN-clause form, not an array constructor.
func (q quoter) quoteList(n int, elem func(int) any) (string, error) {
	parts := make([]string, n)
	for i := range parts {
		s, err := q.quote(elem(i))
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ",") + ")", nil
}

func quoteFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "'Infinity'"
	case math.IsInf(f, -1):
		return "'-Infinity'"
	case math.IsNaN(f):
		return "'NaN'"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInterval renders a duration in the H:MM:SS[.ffffff] form the
// server accepts as interval input.
func formatInterval(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	m := d % time.Hour / time.Minute
	s := d % time.Minute / time.Second
	out := fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	if us := d % time.Second / time.Microsecond; us > 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	return out
}

// substitute assembles the final SQL text by replacing %s placeholders
// from pos or %(name)s placeholders from named with quoted literals.
// %% renders a literal percent sign. Exactly one of pos and named may
// be non-nil. This is purely textual assembly; no parameters are ever
// sent at the protocol level.
func (q quoter) substitute(template string, pos []any, named map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(template) {
			return "", newError(ErrProgramming, "incomplete placeholder at end of template")
		}
		switch template[i] {
		case '%':
			b.WriteByte('%')
		case 's':
			if named != nil {
				return "", newError(ErrProgramming, "positional placeholder with named parameters")
			}
			if next >= len(pos) {
				return "", newError(ErrProgramming, "not enough parameters for template")
			}
			lit, err := q.quote(pos[next])
			if err != nil {
				return "", err
			}
			next++
			b.WriteString(lit)
		case '(':
			end := strings.IndexByte(template[i:], ')')
			if end < 0 || i+end+1 >= len(template) || template[i+end+1] != 's' {
				return "", newError(ErrProgramming, "malformed named placeholder in template")
			}
			key := template[i+1 : i+end]
			if named == nil {
				return "", newError(ErrProgramming, "named placeholder with positional parameters")
			}
			v, ok := named[key]
			if !ok {
				return "", newError(ErrProgramming, fmt.Sprintf("missing named parameter %q", key))
			}
			lit, err := q.quote(v)
			if err != nil {
				return "", err
			}
			b.WriteString(lit)
			i += end + 1
		default:
			return "", newError(ErrProgramming, fmt.Sprintf("unsupported format character %q", template[i]))
		}
	}
	if named == nil && next < len(pos) {
		return "", newError(ErrProgramming, "not all parameters converted during formatting")
	}
	return b.String(), nil
}
