package logflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	require.NoError(t, Setup(false, ""))
	assert.False(t, Registry())

	assert.Equal(t, errLogstrWithoutLog, Setup(false, "walk"))

	require.NoError(t, Setup(true, "walk,memory"))
	assert.True(t, Walk())
	assert.True(t, Memory())
	assert.False(t, Viz())
}

func TestLoggersNeverNil(t *testing.T) {
	assert.NotNil(t, RegistryLogger())
	assert.NotNil(t, WalkLogger())
	assert.NotNil(t, MemoryLogger())
	assert.NotNil(t, ScriptLogger())
	assert.NotNil(t, VizLogger())
}
