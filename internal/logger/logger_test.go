package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuildsBothEncodings(t *testing.T) {
	for _, json := range []bool{true, false} {
		l, err := New(json, false)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1), "debug level must be enabled")
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "short", TruncateForLog("  short  ", 10))
	assert.Equal(t, "long ...", TruncateForLog("long string", 5))
	assert.Equal(t, "", TruncateForLog("anything", 0))
}
