package term

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// ErrMalformedLiteral is returned when a literal's lexical form does not parse
// as the requested value space. Coercions never fall back to zero or "now".
var ErrMalformedLiteral = errors.New("malformed literal")

// DecimalContext is the arithmetic context for xsd:integer and xsd:decimal values.
var DecimalContext = apd.BaseContext.WithPrecision(34)

// NumericType orders numeric datatypes by promotion: integer < decimal < double.
type NumericType int

const (
	NumInteger NumericType = iota
	NumDecimal
	NumDouble
)

// Number is a parsed numeric literal. Dec is valid for integer and decimal,
// Float for double.
type Number struct {
	Type  NumericType
	Dec   *apd.Decimal
	Float float64
}

var integerTypes = func() map[IRI]bool {
	m := map[IRI]bool{XSDInteger: true}
	for _, local := range []string{
		"int", "long", "short", "byte",
		"nonNegativeInteger", "positiveInteger", "negativeInteger",
		"unsignedInt", "unsignedLong",
	} {
		m[IRI(XSDNamespace+local)] = true
	}
	return m
}()

// Number parses the literal as a number. Plain strings are accepted and typed
// by their lexical form: an exponent means double, a point means decimal.
func (l Literal) Number() (Number, error) {
	lex := strings.TrimSpace(l.Value)
	var typ NumericType
	switch {
	case integerTypes[l.Datatype]:
		typ = NumInteger
	case l.Datatype == XSDDecimal:
		typ = NumDecimal
	case l.Datatype == XSDDouble || l.Datatype == IRI(XSDNamespace+"float"):
		typ = NumDouble
	case l.Datatype == "" || l.Datatype == XSDString:
		switch {
		case strings.ContainsAny(lex, "eE") || isSpecialFloat(lex):
			typ = NumDouble
		case strings.Contains(lex, "."):
			typ = NumDecimal
		default:
			typ = NumInteger
		}
	default:
		return Number{}, fmt.Errorf("%w: %s is not numeric", ErrMalformedLiteral, l.Datatype)
	}

	if typ == NumDouble {
		f, err := strconv.ParseFloat(normalizeFloat(lex), 64)
		if err != nil {
			return Number{}, fmt.Errorf("%w: %q as double", ErrMalformedLiteral, l.Value)
		}
		return Number{Type: NumDouble, Float: f}, nil
	}
	if lex == "" || isSpecialFloat(lex) || strings.ContainsAny(lex, "eE") {
		return Number{}, fmt.Errorf("%w: %q as decimal", ErrMalformedLiteral, l.Value)
	}
	if typ == NumInteger && strings.Contains(lex, ".") {
		return Number{}, fmt.Errorf("%w: %q as integer", ErrMalformedLiteral, l.Value)
	}
	d, _, err := apd.NewFromString(lex)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, l.Value, err)
	}
	return Number{Type: typ, Dec: d}, nil
}

func isSpecialFloat(lex string) bool {
	switch lex {
	case "INF", "+INF", "-INF", "NaN":
		return true
	}
	return false
}

func normalizeFloat(lex string) string {
	switch lex {
	case "INF", "+INF":
		return "+Inf"
	case "-INF":
		return "-Inf"
	}
	return lex
}

// Float64 returns the number as a float64.
func (n Number) Float64() float64 {
	if n.Type == NumDouble {
		return n.Float
	}
	f, err := n.Dec.Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

// Decimal returns the number as a decimal. Doubles are converted exactly.
func (n Number) Decimal() (*apd.Decimal, error) {
	if n.Type != NumDouble {
		return new(apd.Decimal).Set(n.Dec), nil
	}
	if math.IsNaN(n.Float) || math.IsInf(n.Float, 0) {
		return nil, fmt.Errorf("%w: %v has no decimal form", ErrMalformedLiteral, n.Float)
	}
	return new(apd.Decimal).SetFloat64(n.Float)
}

// IsIntegral reports whether the value has no fractional part.
func (n Number) IsIntegral() bool {
	if n.Type == NumDouble {
		return n.Float == math.Trunc(n.Float)
	}
	var integ, frac apd.Decimal
	n.Dec.Modf(&integ, &frac)
	return frac.IsZero()
}

// Literal renders the number in the canonical lexical form of its type.
func (n Number) Literal() Literal {
	switch n.Type {
	case NumInteger:
		var i apd.Decimal
		_, _ = DecimalContext.Quantize(&i, n.Dec, 0)
		return Literal{Value: i.Text('f'), Datatype: XSDInteger}
	case NumDecimal:
		s := n.Dec.Text('f')
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return Literal{Value: s, Datatype: XSDDecimal}
	default:
		return Literal{Value: formatDouble(n.Float), Datatype: XSDDouble}
	}
}

func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, "e") {
		s += "e0"
	}
	return s
}

// NewInteger creates an xsd:integer literal.
func NewInteger(i int64) Literal {
	return Literal{Value: strconv.FormatInt(i, 10), Datatype: XSDInteger}
}

// NewDouble creates an xsd:double literal.
func NewDouble(f float64) Literal {
	return Literal{Value: formatDouble(f), Datatype: XSDDouble}
}

// NewDecimal creates an xsd:decimal literal.
func NewDecimal(d *apd.Decimal) Literal {
	return Number{Type: NumDecimal, Dec: d}.Literal()
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02Z07:00",
	"2006-01-02",
}

// Time parses the literal as an xsd:dateTime (or xsd:date). hasZone reports
// whether the lexical form carried a timezone; zoneless values are read as UTC.
func (l Literal) Time() (t time.Time, hasZone bool, err error) {
	lex := strings.TrimSpace(l.Value)
	for i, layout := range dateTimeLayouts {
		if parsed, perr := time.Parse(layout, lex); perr == nil {
			return parsed, i == 0 || i == 3, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q as dateTime", ErrMalformedLiteral, l.Value)
}

// NewDateTime creates an xsd:dateTime literal.
func NewDateTime(t time.Time) Literal {
	return Literal{Value: t.Format(time.RFC3339), Datatype: XSDDateTime}
}
