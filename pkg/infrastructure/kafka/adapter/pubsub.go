package adapter

import (
	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	watermillAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/watermill/adapter"
)

func NewKafkaPublisher(brokers []string, appLogger application.AppLogger) (*kafka.Publisher, error) {
	return kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
}

// NewKafkaSubscriber reads from the oldest offset on first start so that
// events published before the consumer group existed are still handled.
func NewKafkaSubscriber(brokers []string, consumerGroup string, appLogger application.AppLogger) (*kafka.Subscriber, error) {
	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "bus-catalog"

	return kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		ConsumerGroup:         consumerGroup,
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
}
