package adapter_test

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/zaplogger/adapter"
)

func TestWatermillLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := adapter.NewWatermillLoggerAdapter(zapAdapter.NewZapAppLoggerFrom(zap.New(core)))

	scoped := logger.With(watermill.LogFields{"topic": "TripCreated"})
	scoped.Info("subscribed", watermill.LogFields{"consumer": "seat-worker-1"})
	scoped.Error("ack failed", assert.AnError, nil)
	logger.Debug("unscoped", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "TripCreated", entries[0].ContextMap()["topic"])
	assert.Equal(t, "seat-worker-1", entries[0].ContextMap()["consumer"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, assert.AnError.Error(), entries[1].ContextMap()["error"])
	assert.Equal(t, "TripCreated", entries[1].ContextMap()["topic"])

	_, scopedLeaked := entries[2].ContextMap()["topic"]
	assert.False(t, scopedLeaked)
}
