package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tm, err := Parse("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", Format(tm))

	_, err = Parse("06/01/2025")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestNights(t *testing.T) {
	testCases := []struct {
		name     string
		checkIn  string
		checkOut string
		expected []string
	}{
		{
			name:     "one night stay",
			checkIn:  "2025-06-01",
			checkOut: "2025-06-02",
			expected: []string{"2025-06-01"},
		},
		{
			name:     "three night stay",
			checkIn:  "2025-06-01",
			checkOut: "2025-06-04",
			expected: []string{"2025-06-01", "2025-06-02", "2025-06-03"},
		},
		{
			name:     "stay crossing a month boundary",
			checkIn:  "2025-06-30",
			checkOut: "2025-07-02",
			expected: []string{"2025-06-30", "2025-07-01"},
		},
		{
			name:     "empty range",
			checkIn:  "2025-06-01",
			checkOut: "2025-06-01",
			expected: nil,
		},
		{
			name:     "inverted range",
			checkIn:  "2025-06-02",
			checkOut: "2025-06-01",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nights, err := Nights(tc.checkIn, tc.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, nights)
		})
	}
}

func TestNightsInvalidInput(t *testing.T) {
	_, err := Nights("not-a-date", "2025-06-02")
	assert.Error(t, err)

	_, err = Nights("2025-06-01", "not-a-date")
	assert.Error(t, err)
}
