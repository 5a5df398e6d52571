package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/bus-catalog/pkg/application"
	"github.com/mateusmacedo/bus-catalog/pkg/domain"
	"github.com/mateusmacedo/bus-catalog/pkg/infrastructure"
)

const eventNameMetadataKey = "event_name"

// ErrNoSubscriber is returned by Subscribe on a publish-only bus.
var ErrNoSubscriber = errors.New("event bus has no subscriber")

// WatermillEventBus publishes events to a watermill topic named after the
// event. When built with a subscriber, Subscribe consumes that topic and
// hands every decoded event to the handlers registered for it; without one
// the bus is publish-only.
type WatermillEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	subscribed map[string]bool
	mu         sync.RWMutex
	logger     application.AppLogger
	messageID  domain.IDGenerator[string]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus[E, D] {
	ctx, cancel := context.WithCancel(context.Background())
	return &WatermillEventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler[E, D]),
		subscribed: make(map[string]bool),
		logger:     logger,
		messageID:  infrastructure.GenerateUUID,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RegisterHandler adds handler for eventName. Nothing is consumed until
// Subscribe is called for that event.
func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

// Subscribe starts consuming the topic of eventName. The subscription is in
// place when it returns, so events published afterwards are not lost on
// non-persistent transports. Subscribing twice to the same event is a no-op.
func (bus *WatermillEventBus[E, D]) Subscribe(eventName string) error {
	if bus.subscriber == nil {
		return fmt.Errorf("%w: %s", ErrNoSubscriber, eventName)
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.subscribed[eventName] {
		return nil
	}

	messages, err := bus.subscriber.Subscribe(bus.ctx, eventName)
	if err != nil {
		application.LogError(bus.ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return fmt.Errorf("subscribe to %s: %w", eventName, err)
	}
	bus.subscribed[eventName] = true

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for msg := range messages {
			bus.consume(eventName, msg)
		}
	}()
	return nil
}

func (bus *WatermillEventBus[E, D]) consume(eventName string, msg *message.Message) {
	ctx := bus.ctx
	payload, err := application.UnmarshalPayload[D](msg.Payload)
	if err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
			"message_id": msg.UUID,
		})
		// a poison message would be redelivered forever
		msg.Ack()
		return
	}

	var event interface{} = &dynamicEvent[D]{eventName: eventName, payload: payload}
	typedEvent, ok := event.(E)
	if !ok {
		application.LogError(ctx, bus.logger, "error casting event", nil, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Ack()
		return
	}

	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, typedEvent); err != nil {
			application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
				"event_name": eventName,
				"message_id": msg.UUID,
			})
			msg.Nack()
			return
		}
	}

	application.LogInfo(ctx, bus.logger, "event handled", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	msg.Ack()
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	msg := message.NewMessage(bus.messageID(), payload)
	msg.Metadata.Set(eventNameMetadataKey, eventName)
	msg.SetContext(ctx)

	if err := bus.publisher.Publish(eventName, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	application.LogInfo(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	return nil
}

// Close stops consuming and waits for in-flight messages. It does not close
// the publisher or subscriber; their owner does.
func (bus *WatermillEventBus[E, D]) Close() error {
	bus.cancel()
	bus.wg.Wait()
	return nil
}

type dynamicEvent[D any] struct {
	eventName string
	payload   D
}

func (e *dynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *dynamicEvent[D]) Payload() D {
	return e.payload
}
