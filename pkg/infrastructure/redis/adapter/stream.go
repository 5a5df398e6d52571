package adapter

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	watermillAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
)

func NewStreamPublisher(client redis.UniversalClient, appLogger application.AppLogger) (*redisstream.Publisher, error) {
	return redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
}

// NewStreamSubscriber joins consumerGroup as consumer. Every process in the
// group shares the stream, so each event is handled once per group.
func NewStreamSubscriber(client redis.UniversalClient, consumerGroup, consumer string, appLogger application.AppLogger) (*redisstream.Subscriber, error) {
	return redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
		Consumer:      consumer,
	}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
}
