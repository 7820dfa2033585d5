package ofx

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// statementTime stands in for a caller-defined timestamp type.
type statementTime struct {
	time.Time
	source string
}

func TestParseDateTime_Formats(t *testing.T) {
	// October 5, 2008, 1:22pm (124ms), Eastern Standard Time
	want := time.Date(2008, time.October, 5, 13, 22, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "full with zone", in: "20081005132200.124[-5:EST]", want: want},
		{name: "with fraction", in: "20081005132200.124", want: want},
		{name: "with time", in: "20081005132200", want: want},
		{name: "date only", in: "20081005", want: time.Date(2008, time.October, 5, 0, 0, 0, 0, time.UTC)},
		{name: "positive zone", in: "20081005132200[+2:CET]", want: want},
		{name: "surrounding text ignored", in: "  20081005132200\n", want: want},
		{name: "partial time ignored", in: "200810051322", want: time.Date(2008, time.October, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDateTime(tc.in, false)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.True(t, tc.want.Equal(*got), "got %s want %s", got, tc.want)
		})
	}
}

func TestParseDateTime_Blank(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n", "   \r\n  "} {
		for _, ignore := range []bool{false, true} {
			got, err := ParseDateTime(in, ignore)
			require.NoError(t, err)
			require.Nil(t, got)
		}
	}
}

func TestParseDateTime_DateOnlyHasMidnight(t *testing.T) {
	for _, in := range []string{"19991231", "20000229", "20240101", "18800704"} {
		got, err := ParseDateTime(in, false)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Zero(t, got.Hour())
		require.Zero(t, got.Minute())
		require.Zero(t, got.Second())
	}
}

func TestParseDateTime_FormatError(t *testing.T) {
	for _, in := range []string{"not-a-date", "200810", "2008-10-05", "abcdefgh"} {
		for _, ignore := range []bool{false, true} {
			got, err := ParseDateTime(in, ignore)
			require.Nil(t, got)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrFormat)
			require.NotErrorIs(t, err, ErrConstruction)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, in, fe.Input)
		}
	}
}

func TestParseDateTime_ConstructionError(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{name: "month 13", in: "20081332"},
		{name: "day 32", in: "20081032"},
		{name: "february 30", in: "20080230"},
		{name: "day 31 of 30-day month", in: "20080931"},
		{name: "hour 24", in: "20081005240000"},
		{name: "minute 60", in: "20081005126000"},
		{name: "month zero", in: "20080001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDateTime(tc.in, false)
			require.Nil(t, got)
			require.ErrorIs(t, err, ErrConstruction)
			require.NotErrorIs(t, err, ErrFormat)

			var ce *ConstructionError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, tc.in, ce.Input)
			require.NotNil(t, ce.Unwrap())

			got, err = ParseDateTime(tc.in, true)
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestMatchDateTime(t *testing.T) {
	f, err := MatchDateTime("20081005132200.124[-5:EST]")
	require.NoError(t, err)
	require.Equal(t, 2008, f.Year)
	require.Equal(t, 10, f.Month)
	require.Equal(t, 5, f.Day)
	require.Equal(t, 13, f.Hour)
	require.Equal(t, 22, f.Minute)
	require.Equal(t, 0, f.Second)
	require.True(t, f.HasTime)
	require.True(t, f.HasFraction)
	require.Equal(t, 124, f.Millisecond)
	require.NotNil(t, f.Zone)
	require.Equal(t, ZoneAnnotation{OffsetHours: -5, Name: "EST"}, *f.Zone)
	require.Equal(t, "2008-10-05 13:22:00", f.Layout())

	f, err = MatchDateTime("20081332")
	require.NoError(t, err)
	require.Equal(t, 13, f.Month)
	require.Equal(t, 32, f.Day)
	require.False(t, f.HasTime)
	require.False(t, f.HasFraction)
	require.Nil(t, f.Zone)

	_, err = MatchDateTime("")
	require.ErrorIs(t, err, ErrFormat)
}

func TestZoneAnnotation_Location(t *testing.T) {
	loc := ZoneAnnotation{OffsetHours: -5, Name: "EST"}.Location()
	name, offset := time.Date(2008, 10, 5, 0, 0, 0, 0, loc).Zone()
	require.Equal(t, "EST", name)
	require.Equal(t, -5*3600, offset)
}

func TestDateTimeParser_CustomFactory(t *testing.T) {
	var layouts []string
	p := NewDateTimeParser(func(layout string) (statementTime, error) {
		layouts = append(layouts, layout)
		tm, err := CalendarTimestamp(layout)
		return statementTime{Time: tm, source: "custom"}, err
	})

	got, err := p.Parse("20081005", false)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.IsType(t, &statementTime{}, got)
	require.Equal(t, "custom", got.source)
	require.Equal(t, "2008-10-05", got.Format("2006-01-02"))

	got, err = p.Parse("20081005132200.124[-5:EST]", false)
	require.NoError(t, err)
	require.Equal(t, "custom", got.source)
	require.Equal(t, []string{"2008-10-05 00:00:00", "2008-10-05 13:22:00"}, layouts)

	// Without a factory the calendar constructor is back.
	def := NewDateTimeParser[time.Time](nil)
	plain, err := def.Parse("20081005", false)
	require.NoError(t, err)
	require.IsType(t, &time.Time{}, plain)
}

func TestDateTimeParser_FactoryValueIsReturned(t *testing.T) {
	fixed := time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := NewDateTimeParser(func(string) (time.Time, error) { return fixed, nil })

	got, err := p.Parse("20081005", false)
	require.NoError(t, err)
	require.True(t, fixed.Equal(*got))
}

func TestDateTimeParser_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	p := NewDateTimeParser(func(string) (statementTime, error) { return statementTime{}, boom })

	got, err := p.Parse("20081005", false)
	require.Nil(t, got)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrConstruction)

	got, err = p.Parse("20081005", true)
	require.NoError(t, err)
	require.Nil(t, got)

	// Structural failures never reach the factory.
	_, err = p.Parse("garbage", true)
	require.ErrorIs(t, err, ErrFormat)
}

func TestDateTimeParser_NoDefaultFactory(t *testing.T) {
	require.Panics(t, func() { NewDateTimeParser[statementTime](nil) })
}

func TestDateTimeParser_Options(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	cases := []struct {
		name string
		opts []Option
		in   string
		want time.Time
	}{
		{
			name: "zone annotation informational by default",
			in:   "20081005132200[-5:EST]",
			want: time.Date(2008, 10, 5, 13, 22, 0, 0, time.UTC),
		},
		{
			name: "zone offset applied",
			opts: []Option{WithZoneOffset(true)},
			in:   "20081005132200[-5:EST]",
			want: time.Date(2008, 10, 5, 18, 22, 0, 0, time.UTC),
		},
		{
			name: "zone offset without annotation uses location",
			opts: []Option{WithZoneOffset(true), WithLocation(ny)},
			in:   "20081005132200",
			want: time.Date(2008, 10, 5, 13, 22, 0, 0, ny),
		},
		{
			name: "location",
			opts: []Option{WithLocation(ny)},
			in:   "20081005",
			want: time.Date(2008, 10, 5, 0, 0, 0, 0, ny),
		},
		{
			name: "nil location keeps utc",
			opts: []Option{WithLocation(nil)},
			in:   "20081005",
			want: time.Date(2008, 10, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "fractional seconds kept",
			opts: []Option{WithFractionalSeconds(true)},
			in:   "20081005132200.124",
			want: time.Date(2008, 10, 5, 13, 22, 0, 124*int(time.Millisecond), time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewDateTimeParser[time.Time](nil, tc.opts...).Parse(tc.in, false)
			require.NoError(t, err)
			require.True(t, tc.want.Equal(*got), "got %s want %s", got, tc.want)
		})
	}
}

func TestDateTimeParser_ConcurrentUse(t *testing.T) {
	p := NewDateTimeParser[time.Time](nil, WithZoneOffset(true))
	want := time.Date(2008, 10, 5, 18, 22, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Parse("20081005132200.124[-5:EST]", false)
			if err != nil {
				errs <- err
				return
			}
			if !want.Equal(*got) {
				errs <- errors.New("unexpected time " + got.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
