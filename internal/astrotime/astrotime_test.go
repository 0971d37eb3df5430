package astrotime

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// jdOffset relates day numbers to Julian Dates: JD(midnight) = DN + jdOffset.
const jdOffset = 1721409.5

// TestDayNumber verifies the day-number polynomial against known values.
func TestDayNumber(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d int
		want    int64
	}{
		{"reference date", 2019, 5, 11, 737205},
		{"unix epoch", 1970, 1, 1, 719178},
		{"post-leap-boundary", 2000, 3, 1, 730195},
		{"leap day", 2024, 2, 29, 738960},
		{"jan 0 means dec 31", 2014, 1, 0, 735248},
		{"century end", 1999, 12, 31, 730134},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayNumber(tt.y, tt.m, tt.d); got != tt.want {
				t.Errorf("DayNumber(%d,%d,%d) = %d, want %d", tt.y, tt.m, tt.d, got, tt.want)
			}
		})
	}
}

// TestDayNumberMatchesJulian cross-checks the polynomial against the Meeus
// Julian Date algorithm over the full valid range.
func TestDayNumberMatchesJulian(t *testing.T) {
	dates := []struct{ y, m, d int }{
		{1901, 1, 1},
		{1910, 7, 15},
		{1944, 2, 29},
		{1957, 10, 4},
		{1970, 1, 1},
		{1999, 12, 31},
		{2000, 1, 1},
		{2000, 2, 29},
		{2014, 12, 31},
		{2024, 4, 10},
		{2050, 6, 1},
		{2099, 12, 31},
	}

	for _, d := range dates {
		got := float64(DayNumber(d.y, d.m, d.d)) + jdOffset
		want := julian.CalendarGregorianToJD(d.y, d.m, float64(d.d))
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%04d-%02d-%02d: DN+%g = %.1f, julian JD = %.1f", d.y, d.m, d.d, jdOffset, got, want)
		}
	}
}

// TestCivilDateRoundTrip walks every day number in the valid range and checks
// that CivilDate inverts DayNumber exactly.
func TestCivilDateRoundTrip(t *testing.T) {
	start := DayNumber(1901, 1, 1)
	end := DayNumber(2099, 12, 31)

	for dn := start; dn <= end; dn++ {
		y, m, d := CivilDate(dn)
		if m < 1 || m > 12 || d < 1 || d > 31 {
			t.Fatalf("CivilDate(%d) = %d-%d-%d: out of range", dn, y, m, d)
		}
		if back := DayNumber(y, m, d); back != dn {
			t.Fatalf("round trip failed: DN %d -> %04d-%02d-%02d -> DN %d", dn, y, m, d, back)
		}
	}
}

// TestClockRoundTrip checks that clock time survives the fraction conversion
// exactly, at every second of the day (sampled with a stride coprime to 60).
func TestClockRoundTrip(t *testing.T) {
	for s := 0; s < 86400; s += 7 {
		h, m, sec := s/3600, s%3600/60, s%60
		tm := New(2019, 5, 11, h, m, sec)
		gy, gm, gd, gh, gmin, gs := tm.Civil()
		if gy != 2019 || gm != 5 || gd != 11 || gh != h || gmin != m || gs != sec {
			t.Fatalf("round trip %02d:%02d:%02d -> %04d-%02d-%02d %02d:%02d:%02d", h, m, sec, gy, gm, gd, gh, gmin, gs)
		}
	}
}

// TestFromTimeMatchesJulian checks the time.Time bridge against Meeus.
func TestFromTimeMatchesJulian(t *testing.T) {
	times := []time.Time{
		time.Date(2019, 5, 11, 0, 53, 13, 0, time.UTC),
		time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 24, 18, 30, 0, 0, time.UTC),
	}

	for _, tm := range times {
		at := FromTime(tm)
		got := float64(at.DN) + at.TN + jdOffset
		want := julian.TimeToJD(tm)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("FromTime(%v): DN+TN+%g = %.8f, julian = %.8f", tm, jdOffset, got, want)
		}
	}
}

func TestToTime(t *testing.T) {
	tm := New(2024, 2, 29, 23, 59, 59)
	want := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if got := tm.ToTime(); !got.Equal(want) {
		t.Errorf("ToTime() = %v, want %v", got, want)
	}
}

// TestAdd verifies fraction renormalization, including negative steps where
// the fraction must still land in [0,1).
func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		from Time
		days float64
		want string
	}{
		{"half day", New(2019, 5, 11, 0, 0, 0), 0.5, "2019-05-11 12:00:00"},
		{"day boundary", New(2019, 5, 11, 23, 0, 0), 2.0 / 24.0, "2019-05-12 01:00:00"},
		{"negative within day", New(2019, 5, 11, 12, 0, 0), -0.25, "2019-05-11 06:00:00"},
		{"negative across day", New(2019, 5, 11, 0, 0, 0), -0.25, "2019-05-10 18:00:00"},
		{"month boundary", New(2019, 4, 30, 12, 0, 0), 1.0, "2019-05-01 12:00:00"},
		{"thirty days", New(2019, 5, 11, 6, 0, 0), 30.0, "2019-06-10 06:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Add(tt.days)
			if got.TN < 0 || got.TN >= 1 {
				t.Errorf("fraction %g out of [0,1)", got.TN)
			}
			if s := got.String(); s != tt.want {
				t.Errorf("Add(%g) = %q, want %q", tt.days, s, tt.want)
			}
		})
	}
}

// TestRoundUp verifies stepping to the next multiple, including the carry
// into the next day and the full-step advance on an exact boundary.
func TestRoundUp(t *testing.T) {
	minute := 60.0 / 86400.0

	tests := []struct {
		name string
		from Time
		step float64
		want string
	}{
		{"next minute", New(2019, 5, 11, 0, 53, 13), minute, "2019-05-11 00:54:00"},
		{"exact boundary advances", New(2019, 5, 11, 0, 54, 0), minute, "2019-05-11 00:55:00"},
		{"day carry", New(2019, 5, 11, 23, 59, 30), minute, "2019-05-12 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.RoundUp(tt.step)
			if s := got.String(); s != tt.want {
				t.Errorf("RoundUp(%g) = %q, want %q", tt.step, s, tt.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	a := New(2019, 5, 12, 6, 0, 0)
	b := New(2019, 5, 11, 18, 0, 0)
	if got := a.Sub(b); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Sub = %g, want 0.5", got)
	}
	if got := b.Sub(a); math.Abs(got+0.5) > 1e-12 {
		t.Errorf("reverse Sub = %g, want -0.5", got)
	}
}

func TestBefore(t *testing.T) {
	a := New(2019, 5, 11, 0, 0, 0)
	b := New(2019, 5, 11, 0, 0, 1)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before ordering wrong")
	}
}

func TestString(t *testing.T) {
	if got := New(2019, 5, 11, 0, 53, 13).String(); got != "2019-05-11 00:53:13" {
		t.Errorf("String() = %q", got)
	}
}
