package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// OLEEpoch is day zero of the server's fractional day-count dates.
var OLEEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 86400

// ToOADate converts t to days since OLEEpoch. The value is computed in UTC.
func ToOADate(t time.Time) float64 {
	t = t.UTC()
	secs := t.Unix() - OLEEpoch.Unix()
	return (float64(secs) + float64(t.Nanosecond())/1e9) / secondsPerDay
}

// FormatOADate renders t as a day count with 15 significant digits, which
// round-trips to the second for any date the server can store.
func FormatOADate(t time.Time) string {
	return strconv.FormatFloat(ToOADate(t), 'g', 15, 64)
}

// FromOADate converts a day count back to a UTC time rounded to the millisecond.
func FromOADate(days float64) time.Time {
	ms := math.Round(days * secondsPerDay * 1000)
	return OLEEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// ParseOADate parses the textual day count emitted in *_raw date fields.
func ParseOADate(text string) (time.Time, error) {
	days, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, fmt.Errorf("day count %q is not finite", text)
	}
	return FromOADate(days), nil
}

// FormatSeconds renders d as its whole number of seconds.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}

// ParseSeconds parses a (possibly fractional) number of seconds.
func ParseSeconds(text string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("duration %q is not finite", text)
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}
