package messaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure/messaging"
	zapAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/zaplogger/adapter"
)

func TestNew_GoChannel(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))

	publishOnly, err := messaging.New(messaging.Options{Driver: messaging.DriverGoChannel}, logger)
	require.NoError(t, err)
	assert.NotNil(t, publishOnly.Publisher)
	assert.Nil(t, publishOnly.Subscriber)
	require.NoError(t, publishOnly.Close())

	both, err := messaging.New(messaging.Options{Subscribe: true}, logger)
	require.NoError(t, err)
	assert.NotNil(t, both.Publisher)
	assert.NotNil(t, both.Subscriber)
	require.NoError(t, both.Close())
}

func TestNew_RejectsIncompleteOptions(t *testing.T) {
	logger := zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))

	tests := []struct {
		name    string
		opts    messaging.Options
		wantErr string
	}{
		{"unknown driver", messaging.Options{Driver: "nats"}, `unknown driver "nats"`},
		{"redis without client", messaging.Options{Driver: messaging.DriverRedis}, "requires a redis client"},
		{"kafka without brokers", messaging.Options{Driver: messaging.DriverKafka}, "requires at least one broker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := messaging.New(tt.opts, logger)
			require.Error(t, err)
			assert.Nil(t, ps)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
