package ofx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalLayout is the time layout of the string handed to a
// TimestampFactory.
const CanonicalLayout = "2006-01-02 15:04:05"

// dateTimeRegex matches OFX date tokens:
//
//	YYYYMMDD                          1,2,3
//	HHMMSS              (optional)    4,5,6
//	.XXX                (optional)    7
//	[gmt offset:tz]     (optional)    8,9
//
// The match is unanchored; anything around the token is ignored.
var dateTimeRegex = regexp.MustCompile(
	`(\d{4})(\d{2})(\d{2})` +
		`(?:(\d{2})(\d{2})(\d{2}))?` +
		`(?:\.(\d{3}))?` +
		`(?:\[([+-]?\d{1,2}):(\w{3})\])?`,
)

// ZoneAnnotation is the bracketed "[-5:EST]" suffix of a date token.
type ZoneAnnotation struct {
	OffsetHours int
	Name        string
}

// Location returns a fixed zone for the annotation.
func (z ZoneAnnotation) Location() *time.Location {
	return time.FixedZone(z.Name, z.OffsetHours*int(time.Hour/time.Second))
}

// DateTimeFields is the structural match of a date token. Values are not
// range checked: month 13 is passed through and rejected at construction.
type DateTimeFields struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	HasTime              bool

	Millisecond int
	HasFraction bool

	Zone *ZoneAnnotation
}

// Layout renders the six calendar fields in CanonicalLayout form.
func (f DateTimeFields) Layout() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second)
}

// MatchDateTime extracts the fields of a date token without building a
// timestamp. It returns a *FormatError when no YYYYMMDD prefix is present.
func MatchDateTime(s string) (DateTimeFields, error) {
	m := dateTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return DateTimeFields{}, &FormatError{Input: s}
	}

	// Every group is fixed-width digits, so Atoi cannot fail on a match.
	atoi := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}

	f := DateTimeFields{
		Year:   atoi(m[1]),
		Month:  atoi(m[2]),
		Day:    atoi(m[3]),
		Hour:   atoi(m[4]),
		Minute: atoi(m[5]),
		Second: atoi(m[6]),
	}
	f.HasTime = m[4] != ""
	if m[7] != "" {
		f.Millisecond = atoi(m[7])
		f.HasFraction = true
	}
	if m[9] != "" {
		f.Zone = &ZoneAnnotation{OffsetHours: atoi(m[8]), Name: m[9]}
	}
	return f, nil
}

// TimestampFactory builds the final timestamp value from a string in
// CanonicalLayout. Returning an error makes Parse report a ConstructionError.
type TimestampFactory[T any] func(layout string) (T, error)

// CalendarTimestamp is the default construction step: it parses layout as a
// naive UTC timestamp and rejects impossible dates such as 2008-02-30.
func CalendarTimestamp(layout string) (time.Time, error) {
	return time.ParseInLocation(CanonicalLayout, layout, time.UTC)
}

type settings struct {
	loc        *time.Location
	applyZone  bool
	fractional bool
}

// Option tunes the default construction step. Options have no effect on a
// parser built with its own TimestampFactory.
type Option func(*settings)

// WithLocation sets the location naive timestamps are interpreted in.
// A nil location keeps UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithZoneOffset interprets the fields in the token's "[±N:ZZZ]" zone when
// one is present, instead of leaving the annotation informational.
func WithZoneOffset(apply bool) Option {
	return func(s *settings) { s.applyZone = apply }
}

// WithFractionalSeconds keeps the ".XXX" milliseconds on the result.
func WithFractionalSeconds(keep bool) Option {
	return func(s *settings) { s.fractional = keep }
}

func (s settings) builder() func(DateTimeFields) (time.Time, error) {
	return func(f DateTimeFields) (time.Time, error) {
		loc := s.loc
		if s.applyZone && f.Zone != nil {
			loc = f.Zone.Location()
		}
		t, err := time.ParseInLocation(CanonicalLayout, f.Layout(), loc)
		if err != nil {
			return time.Time{}, err
		}
		if s.fractional && f.HasFraction {
			t = t.Add(time.Duration(f.Millisecond) * time.Millisecond)
		}
		return t, nil
	}
}

// DateTimeParser turns OFX date tokens into values of type T. It holds no
// mutable state and is safe for concurrent use.
type DateTimeParser[T any] struct {
	build func(DateTimeFields) (T, error)
}

// NewDateTimeParser returns a parser that constructs values with factory.
// A nil factory selects the built-in calendar constructor, which only exists
// for T = time.Time; any other T with a nil factory panics.
func NewDateTimeParser[T any](factory TimestampFactory[T], opts ...Option) *DateTimeParser[T] {
	if factory != nil {
		return &DateTimeParser[T]{
			build: func(f DateTimeFields) (T, error) { return factory(f.Layout()) },
		}
	}

	cfg := settings{loc: time.UTC}
	for _, opt := range opts {
		opt(&cfg)
	}
	build, ok := any(cfg.builder()).(func(DateTimeFields) (T, error))
	if !ok {
		var zero T
		panic(fmt.Sprintf("ofx: no default timestamp factory for %T", zero))
	}
	return &DateTimeParser[T]{build: build}
}

// Parse converts an OFX date token.
//
// Supported shapes:
//
//	YYYYMMDDHHMMSS.XXX[gmt offset:tz name]
//	YYYYMMDDHHMMSS.XXX
//	YYYYMMDDHHMMSS
//	YYYYMMDD
//
// Empty or blank input yields (nil, nil). A token without a YYYYMMDD prefix
// yields a *FormatError even when ignoreErrors is set; only construction
// failures are suppressed by ignoreErrors.
func (p *DateTimeParser[T]) Parse(s string, ignoreErrors bool) (*T, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	f, err := MatchDateTime(s)
	if err != nil {
		return nil, err
	}

	v, err := p.build(f)
	if err != nil {
		if ignoreErrors {
			return nil, nil
		}
		return nil, &ConstructionError{Input: s, Layout: f.Layout(), Err: err}
	}
	return &v, nil
}

var defaultParser = NewDateTimeParser[time.Time](nil)

// ParseDateTime parses s with a UTC, non-shifting default parser.
func ParseDateTime(s string, ignoreErrors bool) (*time.Time, error) {
	return defaultParser.Parse(s, ignoreErrors)
}
