package dateutil

import (
	"errors"
	"testing"
	"time"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestStartOfWeekSundayAnchor(t *testing.T) {
	// Wednesday 2025-01-08 -> Sunday 2025-01-05.
	wed := time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)
	got := StartOfWeek(wed, time.Sunday)
	if LocalDateKey(got) != "2025-01-05" {
		t.Fatalf("start of week = %s, want 2025-01-05", LocalDateKey(got))
	}
	if got.Hour() != 12 {
		t.Fatalf("start of week not noon-normalized: %v", got)
	}
}

func TestStartOfWeekMondayAnchor(t *testing.T) {
	sun := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	got := StartOfWeek(sun, time.Monday)
	if LocalDateKey(got) != "2024-12-30" {
		t.Fatalf("start of week = %s, want 2024-12-30", LocalDateKey(got))
	}
}

func TestStartOfWeekOnAnchorDayIsIdentity(t *testing.T) {
	sun := time.Date(2025, 1, 5, 23, 45, 0, 0, time.UTC)
	if key := LocalDateKey(StartOfWeek(sun, time.Sunday)); key != "2025-01-05" {
		t.Fatalf("start of week = %s, want 2025-01-05", key)
	}
}

func TestAddDaysAcrossSpringForward(t *testing.T) {
	loc := newYork(t)
	// US DST starts 2025-03-09; walking the week in day units must land on
	// each successive calendar date regardless of the missing hour.
	anchor := time.Date(2025, 3, 8, 12, 0, 0, 0, loc)
	want := []string{
		"2025-03-08", "2025-03-09", "2025-03-10", "2025-03-11",
		"2025-03-12", "2025-03-13", "2025-03-14",
	}
	for i, key := range want {
		got := LocalDateKey(AddDays(anchor, i))
		if got != key {
			t.Fatalf("day %d = %s, want %s", i, got, key)
		}
	}
}

func TestAddDaysAcrossFallBack(t *testing.T) {
	loc := newYork(t)
	// US DST ends 2025-11-02.
	anchor := time.Date(2025, 11, 1, 12, 0, 0, 0, loc)
	if got := LocalDateKey(AddDays(anchor, 2)); got != "2025-11-03" {
		t.Fatalf("anchor+2 = %s, want 2025-11-03", got)
	}
	if AddDays(anchor, 2).Hour() != 12 {
		t.Fatal("noon normalization lost across fall-back")
	}
}

func TestLocalDateKeyUsesLocalComponents(t *testing.T) {
	loc := newYork(t)
	// 23:30 local is already the next day in UTC; the key must follow the
	// local clock.
	late := time.Date(2025, 6, 10, 23, 30, 0, 0, loc)
	if got := LocalDateKey(late); got != "2025-06-10" {
		t.Fatalf("local date key = %s, want 2025-06-10", got)
	}
	if utcKey := LocalDateKey(late.UTC()); utcKey == "2025-06-10" {
		t.Fatalf("expected the UTC rendering to differ, got %s", utcKey)
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	loc := newYork(t)
	parsed, err := ParseDateKey("2025-01-05", loc)
	if err != nil {
		t.Fatalf("parse date key: %v", err)
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 {
		t.Fatalf("expected local midnight, got %v", parsed)
	}
	if LocalDateKey(parsed) != "2025-01-05" {
		t.Fatalf("round trip = %s, want 2025-01-05", LocalDateKey(parsed))
	}
}

func TestParseDateKeyRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "someday", "2025-13-01", "2025-00-10"} {
		if _, err := ParseDateKey(raw, time.UTC); !errors.Is(err, ErrInvalidDateKey) {
			t.Fatalf("ParseDateKey(%q): expected ErrInvalidDateKey, got %v", raw, err)
		}
	}
}
