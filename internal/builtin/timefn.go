package builtin

import (
	"fmt"
	"math"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/roach88/n3reason/internal/term"
)

// Time relation identifiers.
const (
	TimeDay       = term.IRI(term.TimeNamespace + "day")
	TimeDayOfWeek = term.IRI(term.TimeNamespace + "dayOfWeek")
	TimeHour      = term.IRI(term.TimeNamespace + "hour")
	TimeMinute    = term.IRI(term.TimeNamespace + "minute")
	TimeSecond    = term.IRI(term.TimeNamespace + "second")
	TimeMonth     = term.IRI(term.TimeNamespace + "month")
	TimeYear      = term.IRI(term.TimeNamespace + "year")
	TimeTimeZone  = term.IRI(term.TimeNamespace + "timeZone")
	TimeInSeconds = term.IRI(term.TimeNamespace + "inSeconds")
	TimeGMTime    = term.IRI(term.TimeNamespace + "gmTime")
	TimeLocalTime = term.IRI(term.TimeNamespace + "localTime")
)

func registerTime(r *Registry) {
	fields := []struct {
		name term.IRI
		get  func(time.Time) int
	}{
		{TimeDay, time.Time.Day},
		// Monday is 0.
		{TimeDayOfWeek, func(t time.Time) int { return (int(t.Weekday()) + 6) % 7 }},
		{TimeHour, time.Time.Hour},
		{TimeMinute, time.Time.Minute},
		{TimeSecond, time.Time.Second},
		{TimeMonth, func(t time.Time) int { return int(t.Month()) }},
		{TimeYear, time.Time.Year},
	}
	for _, f := range fields {
		r.Register(f.name, NewFunction(f.name, timeField(f.name, f.get)))
	}
	r.Register(TimeTimeZone, NewFunction(TimeTimeZone, timeZone))
	r.Register(TimeInSeconds, NewInverse(TimeInSeconds, inSeconds, fromSeconds))
	r.Register(TimeGMTime, NewFunction(TimeGMTime, nowFormatted(TimeGMTime, time.UTC)))
	r.Register(TimeLocalTime, NewFunction(TimeLocalTime, nowFormatted(TimeLocalTime, time.Local)))
}

func asTime(name term.IRI, t term.Term) (time.Time, bool, error) {
	l, ok := t.(term.Literal)
	if !ok {
		return time.Time{}, false, &TypeError{Builtin: name, Operand: t, Want: "a dateTime literal"}
	}
	v, zone, err := l.Time()
	if err != nil {
		return time.Time{}, false, &TypeError{Builtin: name, Operand: t, Want: "a dateTime literal", Err: err}
	}
	return v, zone, nil
}

func timeField(name term.IRI, get func(time.Time) int) func(*Env, term.Term) (term.Term, error) {
	return func(_ *Env, subject term.Term) (term.Term, error) {
		t, _, err := asTime(name, subject)
		if err != nil {
			return nil, err
		}
		return term.NewInteger(int64(get(t))), nil
	}
}

// timeZone yields "Z" or a "+hh:mm" offset; zoneless values have none.
func timeZone(_ *Env, subject term.Term) (term.Term, error) {
	t, hasZone, err := asTime(TimeTimeZone, subject)
	if err != nil {
		return nil, err
	}
	if !hasZone {
		return nil, ErrNoBinding
	}
	_, offset := t.Zone()
	if offset == 0 {
		return term.NewString("Z"), nil
	}
	sign := '+'
	if offset < 0 {
		sign, offset = '-', -offset
	}
	return term.NewString(fmt.Sprintf("%c%02d:%02d", sign, offset/3600, offset%3600/60)), nil
}

func inSeconds(_ *Env, subject term.Term) (term.Term, error) {
	t, _, err := asTime(TimeInSeconds, subject)
	if err != nil {
		return nil, err
	}
	return term.NewInteger(t.Unix()), nil
}

func fromSeconds(_ *Env, object term.Term) (term.Term, error) {
	n, err := asNumber(TimeInSeconds, object)
	if err != nil {
		return nil, err
	}
	secs := n.Float64()
	if math.IsNaN(secs) || secs < minUnixSeconds || secs > maxUnixSeconds {
		return nil, &TypeError{Builtin: TimeInSeconds, Operand: object, Want: "a second count within years 1 to 9999"}
	}
	whole, frac := math.Modf(secs)
	return term.NewDateTime(time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()), nil
}

// Bounds of the four-digit years an xsd:dateTime renders.
const (
	minUnixSeconds = -62135596800 // 0001-01-01T00:00:00Z
	maxUnixSeconds = 253402300799 // 9999-12-31T23:59:59Z
)

// nowFormatted formats the current time with the subject as a strftime
// layout. An empty layout yields an xsd:dateTime.
func nowFormatted(name term.IRI, loc *time.Location) func(*Env, term.Term) (term.Term, error) {
	return func(env *Env, subject term.Term) (term.Term, error) {
		layout, err := asString(name, subject)
		if err != nil {
			return nil, err
		}
		now := env.now().In(loc)
		if layout == "" {
			return term.NewDateTime(now), nil
		}
		return term.NewString(strftime.Format(layout, now)), nil
	}
}
