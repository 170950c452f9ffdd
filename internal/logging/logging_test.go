package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/logging"
)

func TestNew_LevelIsApplied(t *testing.T) {
	zl, sl, err := logging.New("warn", "production")
	require.NoError(t, err)
	defer func() { _ = zl.Sync() }()

	assert.False(t, zl.Core().Enabled(-1), "debug must be disabled")
	assert.False(t, zl.Core().Enabled(0), "info must be disabled")
	assert.True(t, zl.Core().Enabled(1), "warn must be enabled")
	assert.NotNil(t, sl)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	zl, _, err := logging.New("chatty", "development")
	require.NoError(t, err)

	assert.True(t, zl.Core().Enabled(0))
	assert.False(t, zl.Core().Enabled(-1))
}
