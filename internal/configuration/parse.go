package configuration

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/xhit/go-str2duration/v2"
)

var durationUnits = map[string]string{
	"d": "d", "day": "d", "days": "d",
	"h": "h", "hour": "h", "hours": "h",
	"m": "m", "min": "m", "minute": "m", "minutes": "m",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"ms": "ms", "milli": "ms", "millis": "ms", "millisecond": "ms", "milliseconds": "ms",
	"us": "us", "µs": "us", "micro": "us", "micros": "us", "microsecond": "us", "microseconds": "us",
	"ns": "ns", "nano": "ns", "nanos": "ns", "nanosecond": "ns", "nanoseconds": "ns",
}

var memoryUnits = map[string]string{
	"": "B", "b": "B", "bytes": "B",
	"k": "KiB", "kb": "KiB", "kibibytes": "KiB",
	"m": "MiB", "mb": "MiB", "mebibytes": "MiB",
	"g": "GiB", "gb": "GiB", "gibibytes": "GiB",
	"t": "TiB", "tb": "TiB", "tebibytes": "TiB",
}

var infiniteDurations = []string{"inf", "infinite", "unbounded"}

// ParseDuration parses "<number>[ ]<unit>" (e.g. "10 s", "5min", "100") as well as
// compound forms such as "1h30m" or "2d3h". A bare number is read as milliseconds.
// Failures wrap ErrInvalidDuration.
func ParseDuration(raw string) (time.Duration, error) {
	text := strings.TrimSpace(raw)
	number, unit := splitNumber(text)
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}

	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		unit = "ms"
	}
	if canonical, ok := durationUnits[unit]; ok {
		text = number + canonical
	} else {
		text = strings.Join(strings.Fields(text), "")
	}

	d, err := str2duration.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDuration, raw)
	}
	return d, nil
}

// IsInfinite reports whether raw spells out an unbounded duration.
func IsInfinite(raw string) bool {
	text := strings.TrimSpace(raw)
	for _, word := range infiniteDurations {
		if strings.EqualFold(text, word) {
			return true
		}
	}
	return false
}

// ParseMemorySize parses "<number>[ ]<unit>" with base-2 units (b, k, m, g, t and their
// long forms) into bytes. A bare number is read as bytes. Failures wrap ErrInvalidMemorySize.
func ParseMemorySize(raw string) (int64, error) {
	number, unit := splitNumber(strings.TrimSpace(raw))
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMemorySize, raw)
	}

	canonical, ok := memoryUnits[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("%w: %q has unknown unit %q", ErrInvalidMemorySize, raw, unit)
	}

	size, err := units.ParseBase2Bytes(number + canonical)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMemorySize, raw, err)
	}
	return int64(size), nil
}

// splitNumber splits the leading decimal digits off text.
func splitNumber(text string) (string, string) {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	return text[:i], text[i:]
}
