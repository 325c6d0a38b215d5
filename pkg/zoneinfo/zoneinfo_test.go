package zoneinfo

import (
	"testing"
	"time"
)

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "+00:00"},
		{3600, "+01:00"},
		{-18000, "-05:00"},
		{19800, "+05:30"},
		{-12600, "-03:30"},
		{45900, "+12:45"},
	}
	for _, tt := range tests {
		if got := FormatOffset(tt.seconds); got != tt.want {
			t.Errorf("FormatOffset(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestLocalTime(t *testing.T) {
	c := New(nil)
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	got, ok := c.LocalTime("UTC", now)
	if !ok {
		t.Fatal("LocalTime(UTC) not ok")
	}
	if want := "2025-01-15 12:00 UTC (UTC+00:00)"; got != want {
		t.Errorf("LocalTime(UTC) = %q, want %q", got, want)
	}

	// Cached lookups must give the same answer.
	again, ok := c.LocalTime("UTC", now)
	if !ok || again != got {
		t.Errorf("cached LocalTime(UTC) = %q, %v; want %q, true", again, ok, got)
	}
}

func TestLocalTimeUnknownZone(t *testing.T) {
	c := New(nil)
	if got, ok := c.LocalTime("Mars/Olympus_Mons", time.Now()); ok {
		t.Errorf("LocalTime(unknown) = %q, true; want false", got)
	}
	if _, ok := c.LocalTime("", time.Now()); ok {
		t.Error("LocalTime(\"\") ok, want false")
	}
}

func TestLocation(t *testing.T) {
	c := New(nil)
	loc, err := c.Location("UTC")
	if err != nil {
		t.Fatalf("Location(UTC) error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location(UTC) = %v", loc)
	}
}
