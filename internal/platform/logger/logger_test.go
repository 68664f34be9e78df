package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.With("request_id", "abc").Warn("search exhausted", "iterations", 10)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "search exhausted", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 10, fields["iterations"])
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	log := NewLogger("shouting")
	require.NotNil(t, log)
	log.Debug("dropped at info level")
	NewNop().Info("discarded")
}
