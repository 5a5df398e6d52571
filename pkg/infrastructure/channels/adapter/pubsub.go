package adapter

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	watermillAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
)

// NewGoChannelPubSub returns an in-memory watermill pub/sub. It serves as
// both publisher and subscriber, so events only reach consumers running in
// the same process.
func NewGoChannelPubSub(appLogger application.AppLogger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
}
