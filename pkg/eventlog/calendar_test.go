package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLeapClassifier(t *testing.T) {
	cases := map[int]bool{
		2000: true,
		1900: false,
		2024: true,
		2023: false,
		2400: true,
		1800: false,
	}
	for year, want := range cases {
		assert.Equal(t, want, IsLeap(year), "year %d", year)
	}
}

func TestFormatISO8601UTCEpoch(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00Z", FormatISO8601UTC(0))
}

func TestFormatISO8601UTCMatchesStdlib(t *testing.T) {
	samples := []int64{1, 86399, 86400, 1_700_000_000, 1_609_459_199, 951_782_400}
	for _, sec := range samples {
		want := time.Unix(sec, 0).UTC().Format("2006-01-02T15:04:05Z")
		assert.Equal(t, want, FormatISO8601UTC(sec), "unix %d", sec)
	}
}

func TestFormatISO8601UTCLeapDay(t *testing.T) {
	leapDay := time.Date(2024, time.February, 29, 12, 30, 45, 0, time.UTC).Unix()
	assert.Equal(t, "2024-02-29T12:30:45Z", FormatISO8601UTC(leapDay))
}
