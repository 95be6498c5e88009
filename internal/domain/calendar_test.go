package domain

import (
	"testing"
	"time"
)

func TestGridAligned(t *testing.T) {
	rules := DefaultCalendarRules()

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"on the hour", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), true},
		{"quarter past", time.Date(2026, 9, 1, 9, 15, 0, 0, time.UTC), true},
		{"half past", time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), true},
		{"quarter to", time.Date(2026, 9, 1, 9, 45, 0, 0, time.UTC), true},
		{"five past", time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC), false},
		{"nonzero seconds", time.Date(2026, 9, 1, 9, 15, 30, 0, time.UTC), false},
		{"nonzero nanoseconds", time.Date(2026, 9, 1, 9, 15, 0, 500, time.UTC), false},
	}
	for _, tc := range cases {
		if got := rules.GridAligned(tc.t); got != tc.want {
			t.Errorf("%s: GridAligned(%v) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestWithinClinicHours(t *testing.T) {
	rules := DefaultCalendarRules()

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"opening", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), true},
		{"before opening", time.Date(2026, 9, 1, 8, 45, 0, 0, time.UTC), false},
		{"last hour", time.Date(2026, 9, 1, 16, 45, 0, 0, time.UTC), true},
		{"at close", time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC), false},
		{"evening", time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := rules.WithinClinicHours(tc.t); got != tc.want {
			t.Errorf("%s: WithinClinicHours(%v) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestWithinClinicHoursChecksStartOnly(t *testing.T) {
	rules := DefaultCalendarRules()

	// A start at 16:45 is inside the window even though a long service
	// would run past close. Only the start hour is policed.
	start := time.Date(2026, 9, 1, 16, 45, 0, 0, time.UTC)
	if !rules.WithinClinicHours(start) {
		t.Fatalf("WithinClinicHours(%v) = false, want true", start)
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 9, 1, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name                         string
		aStart, aEnd, bStart, bEnd   time.Time
		want                         bool
	}{
		{"identical", at(9, 0), at(9, 30), at(9, 0), at(9, 30), true},
		{"partial", at(9, 0), at(9, 30), at(9, 15), at(9, 45), true},
		{"contained", at(9, 0), at(10, 0), at(9, 15), at(9, 30), true},
		{"back to back", at(9, 0), at(9, 30), at(9, 30), at(10, 0), false},
		{"back to back reversed", at(9, 30), at(10, 0), at(9, 0), at(9, 30), false},
		{"disjoint", at(9, 0), at(9, 30), at(11, 0), at(11, 30), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDayWindow(t *testing.T) {
	rules := DefaultCalendarRules()

	open, close := rules.DayWindow(time.Date(2026, 9, 1, 13, 42, 7, 0, time.UTC))
	wantOpen := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	wantClose := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	if !open.Equal(wantOpen) {
		t.Fatalf("open = %v, want %v", open, wantOpen)
	}
	if !close.Equal(wantClose) {
		t.Fatalf("close = %v, want %v", close, wantClose)
	}
}
