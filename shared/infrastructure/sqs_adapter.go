package infrastructure

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/events"
)

// SQSSubscriberAdapter adapts SQSEventSubscriber to the events.Subscriber
// interface. Each service owns one durable queue bound to the shared SNS
// topic; the requested event types narrow which messages reach the handler.
type SQSSubscriberAdapter struct {
	sqsSubscriber *SQSEventSubscriber
	isRunning     bool
	queueURL      string
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(queueURL string) (*SQSSubscriberAdapter, error) {
	return &SQSSubscriberAdapter{
		queueURL: queueURL,
	}, nil
}

// filteringHandler drops events whose type was not subscribed to. Dropped
// events are acknowledged, not redelivered.
type filteringHandler struct {
	eventTypes map[string]bool
	handler    events.EventHandler
}

func (f *filteringHandler) HandlerID() string {
	return f.handler.HandlerID()
}

func (f *filteringHandler) Handle(ctx context.Context, event *events.Event) error {
	if len(f.eventTypes) > 0 && !f.eventTypes[event.EventType] {
		return nil
	}
	return f.handler.Handle(ctx, event)
}

// Subscribe implements events.Subscriber. A broker that is unreachable at
// subscribe time is logged and the call returns; service startup is never
// blocked on the broker.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, eventTypes []string, handler events.EventHandler) error {
	if s.isRunning {
		return errors.New("subscriber is already running")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("broker unavailable, continuing without subscription %s: %v", handler.HandlerID(), err)
		return nil
	}

	sqsClient := sqs.NewFromConfig(cfg)

	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}

	s.sqsSubscriber = NewSQSEventSubscriber(sqsClient, s.queueURL, &filteringHandler{
		eventTypes: types,
		handler:    handler,
	})

	if err := s.sqsSubscriber.Start(ctx); err != nil {
		log.Printf("broker unavailable, continuing without subscription %s: %v", handler.HandlerID(), err)
		return nil
	}

	s.isRunning = true
	return nil
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if !s.isRunning || s.sqsSubscriber == nil {
		return nil
	}

	if err := s.sqsSubscriber.Stop(context.Background()); err != nil {
		return errors.Wrap(err, "failed to stop SQS subscriber")
	}

	s.isRunning = false
	return nil
}
