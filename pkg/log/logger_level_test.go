package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger := NewLogger(LevelError)
	assert.Equal(t, LevelError, logger.level)

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.level)
}
