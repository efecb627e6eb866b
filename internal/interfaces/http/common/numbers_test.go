package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePositiveInt(t *testing.T) {
	v, ok := ParsePositiveInt("5", 10)
	require.True(t, ok)
	require.Equal(t, 5, v)

	v, ok = ParsePositiveInt("", 10)
	require.False(t, ok)
	require.Equal(t, 10, v)

	v, ok = ParsePositiveInt("0", 10)
	require.False(t, ok)
	require.Equal(t, 10, v)

	v, ok = ParsePositiveInt("abc", 10)
	require.False(t, ok)
	require.Equal(t, 10, v)
}

func TestParseDaysOld(t *testing.T) {
	v, err := ParseDaysOld("", 30)
	require.NoError(t, err)
	require.Equal(t, 30, v)

	v, err = ParseDaysOld(" 7 ", 30)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	// zero is a valid threshold: everything unanswered counts as stale
	v, err = ParseDaysOld("0", 30)
	require.NoError(t, err)
	require.Equal(t, 0, v)

	_, err = ParseDaysOld("-1", 30)
	require.Error(t, err)

	_, err = ParseDaysOld("7.5", 30)
	require.Error(t, err)
}
