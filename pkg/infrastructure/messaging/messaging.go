// Package messaging selects the watermill transport used for domain events.
package messaging

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	channelsAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/bus-catalog/pkg/infrastructure/redis/adapter"
)

const (
	DriverGoChannel = "gochannel"
	DriverRedis     = "redis"
	DriverKafka     = "kafka"
)

// Options configures New. RedisClient is required for DriverRedis and
// KafkaBrokers for DriverKafka. Subscribe=false builds a publish-only pair.
type Options struct {
	Driver        string
	KafkaBrokers  []string
	RedisClient   redis.UniversalClient
	ConsumerGroup string
	Consumer      string
	Subscribe     bool
}

// PubSub bundles the publisher/subscriber pair of one transport.
// Subscriber is nil when Options.Subscribe is false.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	closers    []func() error
}

func New(opts Options, logger application.AppLogger) (*PubSub, error) {
	ps := &PubSub{}

	switch opts.Driver {
	case DriverGoChannel, "":
		ch := channelsAdapter.NewGoChannelPubSub(logger)
		ps.Publisher = ch
		if opts.Subscribe {
			ps.Subscriber = ch
		}
		ps.closers = append(ps.closers, ch.Close)

	case DriverRedis:
		if opts.RedisClient == nil {
			return nil, errors.New("messaging: redis driver requires a redis client")
		}
		pub, err := redisAdapter.NewStreamPublisher(opts.RedisClient, logger)
		if err != nil {
			return nil, fmt.Errorf("messaging: redis publisher: %w", err)
		}
		ps.Publisher = pub
		ps.closers = append(ps.closers, pub.Close)
		if opts.Subscribe {
			sub, err := redisAdapter.NewStreamSubscriber(opts.RedisClient, opts.ConsumerGroup, opts.Consumer, logger)
			if err != nil {
				_ = ps.Close()
				return nil, fmt.Errorf("messaging: redis subscriber: %w", err)
			}
			ps.Subscriber = sub
			ps.closers = append(ps.closers, sub.Close)
		}

	case DriverKafka:
		if len(opts.KafkaBrokers) == 0 {
			return nil, errors.New("messaging: kafka driver requires at least one broker")
		}
		pub, err := kafkaAdapter.NewKafkaPublisher(opts.KafkaBrokers, logger)
		if err != nil {
			return nil, fmt.Errorf("messaging: kafka publisher: %w", err)
		}
		ps.Publisher = pub
		ps.closers = append(ps.closers, pub.Close)
		if opts.Subscribe {
			sub, err := kafkaAdapter.NewKafkaSubscriber(opts.KafkaBrokers, opts.ConsumerGroup, logger)
			if err != nil {
				_ = ps.Close()
				return nil, fmt.Errorf("messaging: kafka subscriber: %w", err)
			}
			ps.Subscriber = sub
			ps.closers = append(ps.closers, sub.Close)
		}

	default:
		return nil, fmt.Errorf("messaging: unknown driver %q", opts.Driver)
	}

	return ps, nil
}

// Close closes subscriber first, then publisher.
func (ps *PubSub) Close() error {
	var errs []error
	for i := len(ps.closers) - 1; i >= 0; i-- {
		if err := ps.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
