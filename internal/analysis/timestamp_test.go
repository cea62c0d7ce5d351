package analysis

import (
	"loopy/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name  string
		input string
		want  time.Time
		error bool
	}{
		{name: "zulu", input: "2024-01-02T03:04:05Z", want: want},
		{name: "explicit utc offset", input: "2024-01-02T03:04:05+00:00", want: want},
		{name: "millis", input: "2024-01-02T03:04:05.000Z", want: want},
		{name: "surrounding space", input: " 2024-01-02T03:04:05Z ", want: want},
		{name: "other offset", input: "2024-01-01T22:04:05-05:00", want: want},
		{name: "no offset", input: "2024-01-02T03:04:05", error: true},
		{name: "garbage", input: "not a time", error: true},
		{name: "empty", input: "", error: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.input)
			if tc.error {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestampMarkersAgree(t *testing.T) {
	z, err := ParseTimestamp("2024-06-30T23:59:59.123Z")
	require.NoError(t, err)

	offset, err := ParseTimestamp("2024-06-30T23:59:59.123+00:00")
	require.NoError(t, err)

	assert.Equal(t, z, offset)
}
