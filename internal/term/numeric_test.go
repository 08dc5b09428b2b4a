package term

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral_Number(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		typ  NumericType
		want string // canonical lexical form
	}{
		{"integer", NewTyped("007", XSDInteger), NumInteger, "7"},
		{"derived integer type", NewTyped("-3", IRI(XSDNamespace+"long")), NumInteger, "-3"},
		{"decimal", NewTyped("1.50", XSDDecimal), NumDecimal, "1.50"},
		{"decimal without point", NewTyped("2", XSDDecimal), NumDecimal, "2.0"},
		{"double", NewTyped("1.5E2", XSDDouble), NumDouble, "150e0"},
		{"double infinity", NewTyped("-INF", XSDDouble), NumDouble, "-INF"},
		{"plain integer", NewString(" 42 "), NumInteger, "42"},
		{"plain decimal", NewString("0.25"), NumDecimal, "0.25"},
		{"plain double", NewString("2.5e-1"), NumDouble, "0.25e0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := tc.lit.Number()
			require.NoError(t, err)
			assert.Equal(t, tc.typ, n.Type)
			assert.Equal(t, tc.want, n.Literal().Value)
		})
	}
}

func TestLiteral_NumberIsStrict(t *testing.T) {
	for _, lit := range []Literal{
		NewString("abc"),
		NewString(""),
		NewTyped("1.5", XSDInteger),
		NewTyped("INF", XSDDecimal),
		NewTyped("1e3", XSDInteger),
		NewBool(true),
		NewTyped("2024-03-09", XSDDateTime),
	} {
		_, err := lit.Number()
		assert.ErrorIs(t, err, ErrMalformedLiteral, "%s", lit)
	}
}

func TestNumber_Conversions(t *testing.T) {
	n, err := NewTyped("2.5", XSDDecimal).Number()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, n.Float64(), 1e-12)
	assert.False(t, n.IsIntegral())

	n, err = NewDouble(4).Number()
	require.NoError(t, err)
	assert.True(t, n.IsIntegral())
	d, err := n.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "4", d.Text('f'))

	n, err = NewTyped("NaN", XSDDouble).Number()
	require.NoError(t, err)
	_, err = n.Decimal()
	assert.ErrorIs(t, err, ErrMalformedLiteral)
}

func TestNewDouble_Canonical(t *testing.T) {
	assert.Equal(t, "1e+100", NewDouble(1e100).Value)
	assert.Equal(t, "3e0", NewDouble(3).Value)
	assert.Equal(t, "0.1e0", NewDouble(0.1).Value)
}

func TestLiteral_Time(t *testing.T) {
	tests := []struct {
		lex     string
		want    time.Time
		hasZone bool
	}{
		{"2024-03-09T14:30:05Z", time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC), true},
		{"2024-03-09T14:30:05.5+02:00", time.Date(2024, 3, 9, 12, 30, 5, 5e8, time.UTC), true},
		{"2024-03-09T14:30:05", time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC), false},
		{"2024-03-09", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range tests {
		t.Run(tc.lex, func(t *testing.T) {
			got, hasZone, err := NewTyped(tc.lex, XSDDateTime).Time()
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
			assert.Equal(t, tc.hasZone, hasZone)
		})
	}

	_, _, err := NewString("yesterday").Time()
	assert.ErrorIs(t, err, ErrMalformedLiteral)
}
