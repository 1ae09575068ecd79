package pgdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/inf.v0"
)

// CastFunc converts the raw text of a non-NULL column value into its
// typed representation.
type CastFunc func(string) (any, error)

// DecimalParser converts the text of an arbitrary-precision numeric
// value into the caller's decimal representation.
type DecimalParser func(string) (any, error)

var castMu sync.RWMutex

// parseDec is the default decimal representation, *inf.Dec.
func parseDec(s string) (any, error) {
	d, ok := new(inf.Dec).SetString(s)
	if !ok {
		return nil, newError(ErrData, fmt.Sprintf("invalid numeric value %q", s))
	}
	return d, nil
}

var decimalParser DecimalParser = parseDec

// SetDecimalParser replaces the decimal representation used by the
// numeric and money casts. The default parses into *inf.Dec. It returns
// the previously configured parser so callers can restore it.
//
// This is the one piece of cross-cutting mutable configuration in the
// package; the registry guards it with a lock, but as with connections,
// reconfiguring it while statements are in flight is the caller's
// responsibility.
func SetDecimalParser(p DecimalParser) DecimalParser {
	castMu.Lock()
	defer castMu.Unlock()
	prev := decimalParser
	if p != nil {
		decimalParser = p
	}
	return prev
}

func castDecimal(s string) (any, error) {
	castMu.RLock()
	p := decimalParser
	castMu.RUnlock()
	return p(s)
}

func castBool(s string) (any, error) {
	return strings.HasPrefix(s, "t") || strings.HasPrefix(s, "T"), nil
}

func castInt(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, newError(ErrData, fmt.Sprintf("invalid integer value %q", s))
	}
	return n, nil
}

func castLong(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, newError(ErrData, fmt.Sprintf("invalid integer value %q", s))
	}
	return n, nil
}

func castFloat(s string) (any, error) {
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, newError(ErrData, fmt.Sprintf("invalid float value %q", s))
	}
	return f, nil
}

// castMoney strips currency symbols and digit grouping before parsing
// the remainder as a decimal.
func castMoney(s string) (any, error) {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' || c == '.' || c == '-' {
			b.WriteRune(c)
		}
	}
	return castDecimal(b.String())
}

// casts maps canonical server type names to their cast functions. Type
// names without an entry pass through as text; bytea is handled by the
// type cache since it needs the native connection's unescaping.
var casts = map[string]CastFunc{
	"bool":    castBool,
	"int2":    castInt,
	"int4":    castInt,
	"serial":  castInt,
	"int8":    castLong,
	"oid":     castLong,
	"oid8":    castLong,
	"float4":  castFloat,
	"float8":  castFloat,
	"numeric": castDecimal,
	"money":   castMoney,
}
