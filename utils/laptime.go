package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidLapTime = errors.New("invalid format")

// maxLapTime bounds the leading unit of every form so that the sum cannot
// overflow time.Duration.
const maxLapTime = 1000 * 24 * time.Hour

// ParseLapTime reads an operator-entered lap time. Accepted forms:
//
//	MM:SS  MM:SS.f  MM:SS.fff
//	HH:MM:SS  HH:MM:SS.f  HH:MM:SS.fff
//	D:HH:MM:SS.fffffff
//
// In the first two groups the fraction is read as milliseconds: shorter
// fractions are right-padded with zeros, longer ones truncated.
func ParseLapTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidLapTime
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		minutes, ok := parseUnsigned(parts[0])
		if !ok || !within(minutes, time.Minute) {
			return 0, ErrInvalidLapTime
		}
		secs, frac, ok := parseSeconds(parts[1], 3, time.Millisecond)
		if !ok {
			return 0, ErrInvalidLapTime
		}
		return time.Duration(minutes)*time.Minute + secs + frac, nil
	case 3:
		hours, ok1 := parseUnsigned(parts[0])
		minutes, ok2 := parseUnsigned(parts[1])
		if !ok1 || !ok2 || minutes > 59 || !within(hours, time.Hour) {
			return 0, ErrInvalidLapTime
		}
		secs, frac, ok := parseSeconds(parts[2], 3, time.Millisecond)
		if !ok {
			return 0, ErrInvalidLapTime
		}
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + secs + frac, nil
	case 4:
		days, ok1 := parseUnsigned(parts[0])
		hours, ok2 := parseUnsigned(parts[1])
		minutes, ok3 := parseUnsigned(parts[2])
		if !ok1 || !ok2 || !ok3 || hours > 23 || minutes > 59 || !within(days, 24*time.Hour) {
			return 0, ErrInvalidLapTime
		}
		secs, frac, ok := parseSeconds(parts[3], 7, 100*time.Nanosecond)
		if !ok {
			return 0, ErrInvalidLapTime
		}
		return time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute + secs + frac, nil
	}
	return 0, ErrInvalidLapTime
}

// FormatLapTime renders d with one decimal of sub-second precision,
// MM:SS.t below an hour and HH:MM:SS.t from an hour on. Tenths are truncated.
func FormatLapTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	tenths := (ms % 1000) / 100
	total := ms / 1000
	hours := total / 3600
	minutes := (total / 60) % 60
	seconds := total % 60

	if d >= time.Hour {
		return fmt.Sprintf("%02d:%02d:%02d.%d", hours, minutes, seconds, tenths)
	}
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}

// parseSeconds splits "SS" or "SS.fff" and scales the fraction to digits
// places of unit.
func parseSeconds(s string, digits int, unit time.Duration) (time.Duration, time.Duration, bool) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	secs, ok := parseUnsigned(whole)
	if !ok || secs > 59 {
		return 0, 0, false
	}
	if !hasFrac {
		return time.Duration(secs) * time.Second, 0, true
	}
	if !isDigits(frac) {
		return 0, 0, false
	}
	if len(frac) > digits {
		frac = frac[:digits]
	} else {
		frac += strings.Repeat("0", digits-len(frac))
	}
	n, ok := parseUnsigned(frac)
	if !ok {
		return 0, 0, false
	}
	return time.Duration(secs) * time.Second, time.Duration(n) * unit, true
}

func within(n int, unit time.Duration) bool {
	return int64(n) < int64(maxLapTime/unit)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseUnsigned(s string) (int, bool) {
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
