package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "brazilian date with time",
			input:    "10/03/2025 14:30",
			expected: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "brazilian date",
			input:    "25/12/2024",
			expected: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso date",
			input:    "2025-03-10",
			expected: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso timestamp",
			input:    "2025-03-10T08:15:00",
			expected: time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC),
		},
		{
			name:     "extra whitespace",
			input:    "  10/03/2025   14:30 ",
			expected: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, _, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(parsed), "got %v", parsed)
		})
	}
}

func TestParseDateFailure(t *testing.T) {
	_, _, err := ParseDate("not a date")
	assert.Error(t, err)

	_, _, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseDateStringEmptyIsZero(t *testing.T) {
	parsed, err := ParseDateString("  ")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

func TestFormatting(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", ToISODate(date))
	assert.Equal(t, "10/03/2025", ToBrazilianFormat(date))
	assert.Equal(t, "", ToISODate(time.Time{}))
	assert.Equal(t, "", ToBrazilianFormat(time.Time{}))
}

func TestTimestampSuffix(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 5, 123_000_000, time.UTC)
	assert.Equal(t, "10032025143005123", TimestampSuffix(now))
}
