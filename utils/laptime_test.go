package utils

import (
	"testing"
	"time"
)

func TestParseLapTime(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1:15", 75 * time.Second},
		{"01:15.0", 75 * time.Second},
		{"1:15.3", 75*time.Second + 300*ms},
		{"1:15.25", 75*time.Second + 250*ms},
		{"1:15.123", 75*time.Second + 123*ms},
		{"1:15.12345", 75*time.Second + 123*ms},
		{" 0:59.999 ", 59*time.Second + 999*ms},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"1:02:03.4", time.Hour + 2*time.Minute + 3*time.Second + 400*ms},
		{"0:00:01:15.1234567", 75*time.Second + 123456700*time.Nanosecond},
		{"1:00:00:00", 24 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseLapTime(tt.in)
		if err != nil {
			t.Errorf("ParseLapTime(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLapTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLapTimeRejects(t *testing.T) {
	for _, in := range []string{
		"", "75", "1:60", "1:75.0", "1:15.", "1:15.x", "1:15.1234x", "a:15", "-1:15",
		"1:60:00", "1:24:00:00", "1:2:3:4:5", "1::15", "1:15:", "1,15",
		// leading units large enough to overflow a duration
		"5124096:00:00", "3000000:00:00", "9999999999:00", "200000:00:00:00.0",
		"99999999999999999999:00",
	} {
		if d, err := ParseLapTime(in); err != ErrInvalidLapTime {
			t.Errorf("ParseLapTime(%q) = %v, %v; want invalid format", in, d, err)
		}
	}
}

func TestFormatLapTime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00.0"},
		{75*time.Second + 299*time.Millisecond, "01:15.2"},
		{59*time.Minute + 59*time.Second + 999*time.Millisecond, "59:59.9"},
		{time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond, "01:02:03.4"},
		{-time.Second, "00:00.0"},
	}
	for _, tt := range tests {
		if got := FormatLapTime(tt.in); got != tt.want {
			t.Errorf("FormatLapTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLapTimeRoundTrip(t *testing.T) {
	for _, in := range []string{"1:15.25", "0:42.9", "12:00.05", "1:02:03.456"} {
		d, err := ParseLapTime(in)
		if err != nil {
			t.Fatalf("ParseLapTime(%q): %v", in, err)
		}
		again, err := ParseLapTime(FormatLapTime(d))
		if err != nil {
			t.Fatalf("reparse %q: %v", FormatLapTime(d), err)
		}
		if again != d.Truncate(100*time.Millisecond) {
			t.Errorf("%q: round trip %v, want %v", in, again, d.Truncate(100*time.Millisecond))
		}
	}
}
