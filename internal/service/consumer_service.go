package service

import (
	"context"

	"ar-storefront-be/internal/pkg/logger"
	"ar-storefront-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "CONSUMER"

// EventRelay forwards events beyond the process. *nats.Publisher implements it.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    message.Subscriber
	topicName string
	relay     EventRelay
	logger    logger.ILogger
}

// NewConsumerService takes a nil relay when NATS is unavailable.
func NewConsumerService(pubSub message.Subscriber, topicName string, relay EventRelay, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		relay:     relay,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error(consumerModule, "dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info(consumerModule, "event", map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
		"payload":     event.Payload(),
	})

	if cs.relay != nil {
		// a NATS outage must not redeliver forever on the in-process bus
		if err := cs.relay.Publish(ctx, event); err != nil {
			cs.logger.Warn(consumerModule, "failed to relay event to NATS", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	msg.Ack()
}
