package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"

	"github.com/roach88/n3reason/internal/term"
)

// String relation identifiers.
const (
	StringConcatenation        = term.IRI(term.StringNamespace + "concatenation")
	StringConcat               = term.IRI(term.StringNamespace + "concat")
	StringContains             = term.IRI(term.StringNamespace + "contains")
	StringContainsIgnoringCase = term.IRI(term.StringNamespace + "containsIgnoringCase")
	StringStartsWith           = term.IRI(term.StringNamespace + "startsWith")
	StringEndsWith             = term.IRI(term.StringNamespace + "endsWith")
	StringEqualIgnoringCase    = term.IRI(term.StringNamespace + "equalIgnoringCase")
	StringNotEqualIgnoringCase = term.IRI(term.StringNamespace + "notEqualIgnoringCase")
	StringGreaterThan          = term.IRI(term.StringNamespace + "greaterThan")
	StringLessThan             = term.IRI(term.StringNamespace + "lessThan")
	StringNotGreaterThan       = term.IRI(term.StringNamespace + "notGreaterThan")
	StringNotLessThan          = term.IRI(term.StringNamespace + "notLessThan")
	StringMatches              = term.IRI(term.StringNamespace + "matches")
	StringNotMatches           = term.IRI(term.StringNamespace + "notMatches")
	StringReplace              = term.IRI(term.StringNamespace + "replace")
	StringScrape               = term.IRI(term.StringNamespace + "scrape")
	StringFormat               = term.IRI(term.StringNamespace + "format")
)

// regexTimeout bounds a single regular expression evaluation.
const regexTimeout = time.Second

func registerString(r *Registry) {
	r.Register(StringConcatenation, NewFunction(StringConcatenation, concatenation(StringConcatenation)))
	r.Register(StringConcat, NewFunction(StringConcat, concatenation(StringConcat)))
	r.Register(StringReplace, NewFunction(StringReplace, replace))
	r.Register(StringScrape, NewFunction(StringScrape, scrape))
	r.Register(StringFormat, NewFunction(StringFormat, format))

	tests := []struct {
		name term.IRI
		pred func(a, b string) (bool, error)
	}{
		{StringContains, plain(strings.Contains)},
		{StringContainsIgnoringCase, plain(func(a, b string) bool { return strings.Contains(fold(a), fold(b)) })},
		{StringStartsWith, plain(strings.HasPrefix)},
		{StringEndsWith, plain(strings.HasSuffix)},
		{StringEqualIgnoringCase, plain(func(a, b string) bool { return fold(a) == fold(b) })},
		{StringNotEqualIgnoringCase, plain(func(a, b string) bool { return fold(a) != fold(b) })},
		{StringGreaterThan, plain(func(a, b string) bool { return a > b })},
		{StringLessThan, plain(func(a, b string) bool { return a < b })},
		{StringNotGreaterThan, plain(func(a, b string) bool { return a <= b })},
		{StringNotLessThan, plain(func(a, b string) bool { return a >= b })},
		{StringMatches, matches},
		{StringNotMatches, func(a, b string) (bool, error) {
			ok, err := matches(a, b)
			return !ok, err
		}},
	}
	for _, t := range tests {
		r.Register(t.name, stringTest(t.name, t.pred))
	}
}

func stringTest(name term.IRI, pred func(a, b string) (bool, error)) Constructor {
	return NewTest(name, func(left, right term.Term) (bool, error) {
		a, err := asString(name, left)
		if err != nil {
			return false, err
		}
		b, err := asString(name, right)
		if err != nil {
			return false, err
		}
		return pred(a, b)
	})
}

func plain(pred func(a, b string) bool) func(a, b string) (bool, error) {
	return func(a, b string) (bool, error) { return pred(a, b), nil }
}

// fold applies Unicode case folding. Casers hold state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func compileRegex(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = regexTimeout
	return re, nil
}

func matches(s, pattern string) (bool, error) {
	re, err := compileRegex(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s)
}

func concatenation(name term.IRI) func(*Env, term.Term) (term.Term, error) {
	return func(_ *Env, subject term.Term) (term.Term, error) {
		parts, err := asStrings(name, subject)
		if err != nil {
			return nil, err
		}
		return term.NewString(strings.Join(parts, "")), nil
	}
}

// replace takes (input pattern replacement) and replaces every match.
func replace(_ *Env, subject term.Term) (term.Term, error) {
	args, err := asStrings(StringReplace, subject)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, &TypeError{Builtin: StringReplace, Operand: subject, Want: "a (input pattern replacement) list"}
	}
	re, err := compileRegex(args[1])
	if err != nil {
		return nil, &TypeError{Builtin: StringReplace, Operand: subject, Want: "a valid pattern", Err: err}
	}
	out, err := re.Replace(args[0], args[2], -1, -1)
	if err != nil {
		return nil, err
	}
	return term.NewString(out), nil
}

// scrape takes (input pattern) and yields the first capture group of the first match.
func scrape(_ *Env, subject term.Term) (term.Term, error) {
	args, err := asStrings(StringScrape, subject)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, &TypeError{Builtin: StringScrape, Operand: subject, Want: "a (input pattern) list"}
	}
	re, err := compileRegex(args[1])
	if err != nil {
		return nil, &TypeError{Builtin: StringScrape, Operand: subject, Want: "a valid pattern", Err: err}
	}
	m, err := re.FindStringMatch(args[0])
	if err != nil {
		return nil, err
	}
	if m == nil || m.GroupCount() < 2 {
		return nil, ErrNoBinding
	}
	return term.NewString(m.GroupByNumber(1).String()), nil
}

// format takes (template arg...) where the template uses %s and %%.
func format(_ *Env, subject term.Term) (term.Term, error) {
	args, err := asStrings(StringFormat, subject)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, &TypeError{Builtin: StringFormat, Operand: subject, Want: "a non-empty list"}
	}
	tmpl, rest := args[0], args[1:]
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' || i+1 == len(tmpl) {
			b.WriteByte(tmpl[i])
			continue
		}
		i++
		switch tmpl[i] {
		case '%':
			b.WriteByte('%')
		case 's':
			if len(rest) == 0 {
				return nil, fmt.Errorf("%s: not enough arguments for %q", StringFormat, tmpl)
			}
			b.WriteString(rest[0])
			rest = rest[1:]
		default:
			return nil, fmt.Errorf("%s: unsupported verb %%%c", StringFormat, tmpl[i])
		}
	}
	return term.NewString(b.String()), nil
}
