package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOADate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"epoch", OLEEpoch, "0"},
		{"noon on epoch", OLEEpoch.Add(12 * time.Hour), "0.5"},
		{"known date", time.Date(2000, 10, 2, 12, 10, 5, 0, time.UTC), "36801.5070023148"},
		{"non utc zone normalised", time.Date(2000, 10, 2, 14, 10, 5, 0, time.FixedZone("CEST", 2*3600)), "36801.5070023148"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOADate(tt.in))
		})
	}
}

func TestOADateRoundTripsToTheSecond(t *testing.T) {
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2000; i++ {
		in := start.Add(time.Duration(i) * 7919 * time.Second * 13)
		parsed, err := ParseOADate(FormatOADate(in))
		require.NoError(t, err)
		assert.Equal(t, in, parsed.Round(time.Second), "date %s", in)
	}
}

func TestParseOADate(t *testing.T) {
	got, err := ParseOADate(" 36801.5070023148 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 10, 2, 12, 10, 5, 0, time.UTC), got)

	_, err = ParseOADate("yesterday")
	assert.Error(t, err)

	_, err = ParseOADate("NaN")
	assert.Error(t, err)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "3723", FormatSeconds(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0", FormatSeconds(999*time.Millisecond))

	for secs := 0; secs < 86400; secs += 37 {
		d := time.Duration(secs) * time.Second
		assert.Equal(t, d, mustParseSeconds(t, FormatSeconds(d)))
	}
}

func TestParseSeconds(t *testing.T) {
	assert.Equal(t, 90*time.Second, mustParseSeconds(t, "90"))
	assert.Equal(t, 1500*time.Millisecond, mustParseSeconds(t, "1.5"))

	_, err := ParseSeconds("ninety")
	assert.Error(t, err)
}

func mustParseSeconds(t *testing.T, text string) time.Duration {
	t.Helper()
	d, err := ParseSeconds(text)
	require.NoError(t, err)
	return d
}
