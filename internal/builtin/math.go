package builtin

import (
	"errors"
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/n3reason/internal/term"
)

// Math relation identifiers.
const (
	MathSum             = term.IRI(term.MathNamespace + "sum")
	MathProduct         = term.IRI(term.MathNamespace + "product")
	MathDifference      = term.IRI(term.MathNamespace + "difference")
	MathQuotient        = term.IRI(term.MathNamespace + "quotient")
	MathIntegerQuotient = term.IRI(term.MathNamespace + "integerQuotient")
	MathRemainder       = term.IRI(term.MathNamespace + "remainder")
	MathExponentiation  = term.IRI(term.MathNamespace + "exponentiation")
	MathNegation        = term.IRI(term.MathNamespace + "negation")
	MathAbsoluteValue   = term.IRI(term.MathNamespace + "absoluteValue")
	MathCeiling         = term.IRI(term.MathNamespace + "ceiling")
	MathFloor           = term.IRI(term.MathNamespace + "floor")
	MathRounded         = term.IRI(term.MathNamespace + "rounded")
	MathSin             = term.IRI(term.MathNamespace + "sin")
	MathCos             = term.IRI(term.MathNamespace + "cos")
	MathTan             = term.IRI(term.MathNamespace + "tan")
	MathAsin            = term.IRI(term.MathNamespace + "asin")
	MathAcos            = term.IRI(term.MathNamespace + "acos")
	MathAtan            = term.IRI(term.MathNamespace + "atan")
	MathAtan2           = term.IRI(term.MathNamespace + "atan2")
	MathSinh            = term.IRI(term.MathNamespace + "sinh")
	MathCosh            = term.IRI(term.MathNamespace + "cosh")
	MathTanh            = term.IRI(term.MathNamespace + "tanh")
	MathDegrees         = term.IRI(term.MathNamespace + "degrees")
	MathGreaterThan     = term.IRI(term.MathNamespace + "greaterThan")
	MathLessThan        = term.IRI(term.MathNamespace + "lessThan")
	MathNotGreaterThan  = term.IRI(term.MathNamespace + "notGreaterThan")
	MathNotLessThan     = term.IRI(term.MathNamespace + "notLessThan")
	MathEqualTo         = term.IRI(term.MathNamespace + "equalTo")
	MathNotEqualTo      = term.IRI(term.MathNamespace + "notEqualTo")
)

var errDivisionByZero = errors.New("division by zero")

func registerMath(r *Registry) {
	r.Register(MathSum, NewFunction(MathSum, foldNumbers(MathSum, term.DecimalContext.Add, func(a, b float64) float64 { return a + b })))
	r.Register(MathProduct, NewFunction(MathProduct, foldNumbers(MathProduct, term.DecimalContext.Mul, func(a, b float64) float64 { return a * b })))
	r.Register(MathDifference, NewFunction(MathDifference, binaryNumbers(MathDifference, arith(term.DecimalContext.Sub, func(a, b float64) float64 { return a - b }))))
	r.Register(MathQuotient, NewFunction(MathQuotient, binaryNumbers(MathQuotient, quotient)))
	r.Register(MathIntegerQuotient, NewFunction(MathIntegerQuotient, binaryNumbers(MathIntegerQuotient, integerQuotient)))
	r.Register(MathRemainder, NewFunction(MathRemainder, binaryNumbers(MathRemainder, remainder)))
	r.Register(MathExponentiation, NewFunction(MathExponentiation, binaryNumbers(MathExponentiation, exponentiation)))
	r.Register(MathAtan2, NewFunction(MathAtan2, binaryNumbers(MathAtan2, func(a, b term.Number) (term.Number, error) {
		return term.Number{Type: term.NumDouble, Float: math.Atan2(a.Float64(), b.Float64())}, nil
	})))

	r.Register(MathNegation, NewInverse(MathNegation, unaryNumber(MathNegation, negate), unaryNumber(MathNegation, negate)))
	r.Register(MathAbsoluteValue, NewFunction(MathAbsoluteValue, unaryNumber(MathAbsoluteValue, absolute)))
	r.Register(MathCeiling, NewFunction(MathCeiling, unaryNumber(MathCeiling, toInteger(term.DecimalContext.Ceil, math.Ceil))))
	r.Register(MathFloor, NewFunction(MathFloor, unaryNumber(MathFloor, toInteger(term.DecimalContext.Floor, math.Floor))))
	r.Register(MathRounded, NewFunction(MathRounded, unaryNumber(MathRounded, toInteger(roundHalfUp, math.Round))))

	trig := []struct {
		name, inverse term.IRI
		fn, inv       func(float64) float64
	}{
		{MathSin, MathAsin, math.Sin, math.Asin},
		{MathCos, MathAcos, math.Cos, math.Acos},
		{MathTan, MathAtan, math.Tan, math.Atan},
		{MathSinh, "", math.Sinh, math.Asinh},
		{MathCosh, "", math.Cosh, math.Acosh},
		{MathTanh, "", math.Tanh, math.Atanh},
		{MathDegrees, "", func(r float64) float64 { return r * 180 / math.Pi }, func(d float64) float64 { return d * math.Pi / 180 }},
	}
	for _, t := range trig {
		fwd, back := unaryNumber(t.name, float(t.fn)), unaryNumber(t.name, float(t.inv))
		r.Register(t.name, NewInverse(t.name, fwd, back))
		if t.inverse != "" {
			r.Register(t.inverse, NewInverse(t.inverse, unaryNumber(t.inverse, float(t.inv)), unaryNumber(t.inverse, float(t.fn))))
		}
	}

	compare := func(name term.IRI, hold func(c int) bool) Constructor {
		return NewTest(name, func(left, right term.Term) (bool, error) {
			a, err := asNumber(name, left)
			if err != nil {
				return false, err
			}
			b, err := asNumber(name, right)
			if err != nil {
				return false, err
			}
			return hold(compareNumbers(a, b)), nil
		})
	}
	r.Register(MathGreaterThan, compare(MathGreaterThan, func(c int) bool { return c > 0 }))
	r.Register(MathLessThan, compare(MathLessThan, func(c int) bool { return c < 0 }))
	r.Register(MathNotGreaterThan, compare(MathNotGreaterThan, func(c int) bool { return c <= 0 }))
	r.Register(MathNotLessThan, compare(MathNotLessThan, func(c int) bool { return c >= 0 }))
	r.Register(MathEqualTo, compare(MathEqualTo, func(c int) bool { return c == 0 }))
	r.Register(MathNotEqualTo, compare(MathNotEqualTo, func(c int) bool { return c != 0 }))
}

type decimalOp func(d, x, y *apd.Decimal) (apd.Condition, error)

// widest returns the promoted type of the operands.
func widest(nums ...term.Number) term.NumericType {
	t := term.NumInteger
	for _, n := range nums {
		t = max(t, n.Type)
	}
	return t
}

// arith applies op in the promoted type of a and b.
func arith(dec decimalOp, flt func(a, b float64) float64) func(a, b term.Number) (term.Number, error) {
	return func(a, b term.Number) (term.Number, error) {
		typ := widest(a, b)
		if typ == term.NumDouble {
			return term.Number{Type: typ, Float: flt(a.Float64(), b.Float64())}, nil
		}
		d := new(apd.Decimal)
		if _, err := dec(d, a.Dec, b.Dec); err != nil {
			return term.Number{}, err
		}
		return term.Number{Type: typ, Dec: d}, nil
	}
}

// foldNumbers reduces a list of numbers left to right. The empty list folds
// to the identity of neither sum nor product, so it is rejected.
func foldNumbers(name term.IRI, dec decimalOp, flt func(a, b float64) float64) func(*Env, term.Term) (term.Term, error) {
	step := arith(dec, flt)
	return func(_ *Env, subject term.Term) (term.Term, error) {
		nums, err := asNumbers(name, subject)
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			return nil, &TypeError{Builtin: name, Operand: subject, Want: "a non-empty list"}
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			if acc, err = step(acc, n); err != nil {
				return nil, err
			}
		}
		return acc.Literal(), nil
	}
}

// binaryNumbers applies fn to a two-element list.
func binaryNumbers(name term.IRI, fn func(a, b term.Number) (term.Number, error)) func(*Env, term.Term) (term.Term, error) {
	return func(_ *Env, subject term.Term) (term.Term, error) {
		nums, err := asNumbers(name, subject)
		if err != nil {
			return nil, err
		}
		if len(nums) != 2 {
			return nil, &TypeError{Builtin: name, Operand: subject, Want: "a two-element list"}
		}
		n, err := fn(nums[0], nums[1])
		if err != nil {
			return nil, &TypeError{Builtin: name, Operand: subject, Want: "a valid operand pair", Err: err}
		}
		return n.Literal(), nil
	}
}

func unaryNumber(name term.IRI, fn func(term.Number) (term.Number, error)) func(*Env, term.Term) (term.Term, error) {
	return func(_ *Env, t term.Term) (term.Term, error) {
		n, err := asNumber(name, t)
		if err != nil {
			return nil, err
		}
		out, err := fn(n)
		if err != nil {
			return nil, &TypeError{Builtin: name, Operand: t, Want: "in the function's domain", Err: err}
		}
		return out.Literal(), nil
	}
}

func isZero(n term.Number) bool {
	if n.Type == term.NumDouble {
		return n.Float == 0
	}
	return n.Dec.IsZero()
}

// quotient divides a by b; integer operands yield a decimal.
func quotient(a, b term.Number) (term.Number, error) {
	if isZero(b) {
		return term.Number{}, errDivisionByZero
	}
	n, err := arith(term.DecimalContext.Quo, func(x, y float64) float64 { return x / y })(a, b)
	if err != nil {
		return n, err
	}
	if n.Type == term.NumInteger {
		n.Type = term.NumDecimal
		_, _ = n.Dec.Reduce(n.Dec)
	}
	return n, nil
}

func integerQuotient(a, b term.Number) (term.Number, error) {
	if isZero(b) {
		return term.Number{}, errDivisionByZero
	}
	if widest(a, b) == term.NumDouble {
		return fromFloat(math.Trunc(a.Float64() / b.Float64()))
	}
	d := new(apd.Decimal)
	if _, err := term.DecimalContext.QuoInteger(d, a.Dec, b.Dec); err != nil {
		return term.Number{}, err
	}
	return term.Number{Type: term.NumInteger, Dec: d}, nil
}

func remainder(a, b term.Number) (term.Number, error) {
	if isZero(b) {
		return term.Number{}, errDivisionByZero
	}
	return arith(term.DecimalContext.Rem, math.Mod)(a, b)
}

// exponentiation stays integral for integer bases with non-negative integer exponents.
func exponentiation(base, exp term.Number) (term.Number, error) {
	typ := widest(base, exp)
	if typ == term.NumDouble {
		return term.Number{Type: typ, Float: math.Pow(base.Float64(), exp.Float64())}, nil
	}
	d := new(apd.Decimal)
	if _, err := term.DecimalContext.Pow(d, base.Dec, exp.Dec); err != nil {
		return term.Number{}, err
	}
	if typ == term.NumInteger && exp.Dec.Negative {
		typ = term.NumDecimal
	}
	return term.Number{Type: typ, Dec: d}, nil
}

func negate(n term.Number) (term.Number, error) {
	if n.Type == term.NumDouble {
		return term.Number{Type: n.Type, Float: -n.Float}, nil
	}
	return term.Number{Type: n.Type, Dec: new(apd.Decimal).Neg(n.Dec)}, nil
}

func absolute(n term.Number) (term.Number, error) {
	if n.Type == term.NumDouble {
		return term.Number{Type: n.Type, Float: math.Abs(n.Float)}, nil
	}
	return term.Number{Type: n.Type, Dec: new(apd.Decimal).Abs(n.Dec)}, nil
}

func roundHalfUp(d, x *apd.Decimal) (apd.Condition, error) {
	ctx := *term.DecimalContext
	ctx.Rounding = apd.RoundHalfUp
	return ctx.RoundToIntegralValue(d, x)
}

// toInteger maps a number onto xsd:integer.
func toInteger(dec func(d, x *apd.Decimal) (apd.Condition, error), flt func(float64) float64) func(term.Number) (term.Number, error) {
	return func(n term.Number) (term.Number, error) {
		if n.Type == term.NumDouble {
			return fromFloat(flt(n.Float))
		}
		d := new(apd.Decimal)
		if _, err := dec(d, n.Dec); err != nil {
			return term.Number{}, err
		}
		return term.Number{Type: term.NumInteger, Dec: d}, nil
	}
}

func fromFloat(f float64) (term.Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return term.Number{}, term.ErrMalformedLiteral
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return term.Number{}, err
	}
	return term.Number{Type: term.NumInteger, Dec: d}, nil
}

// float lifts a float function into a double-valued number function.
func float(fn func(float64) float64) func(term.Number) (term.Number, error) {
	return func(n term.Number) (term.Number, error) {
		f := fn(n.Float64())
		if math.IsNaN(f) {
			return term.Number{}, term.ErrMalformedLiteral
		}
		return term.Number{Type: term.NumDouble, Float: f}, nil
	}
}

func compareNumbers(a, b term.Number) int {
	if widest(a, b) == term.NumDouble {
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return a.Dec.Cmp(b.Dec)
}
