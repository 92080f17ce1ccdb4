package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "05/06/2025", FormatDisplayDate(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := ParseTimeRange("9:30 - 11:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30", start)
	assert.Equal(t, "11:00", end)

	_, _, err = ParseTimeRange("11:00 - 09:00")
	assert.Error(t, err)

	_, _, err = ParseTimeRange("11:00")
	assert.Error(t, err)

	_, _, err = ParseTimeRange("aa:bb - 10:00")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := PasswordEncrypt("ana123")
	require.NoError(t, err)
	assert.NotEqual(t, "ana123", hash)
	assert.True(t, PasswordCompare(hash, "ana123"))
	assert.False(t, PasswordCompare(hash, "ana124"))
}
