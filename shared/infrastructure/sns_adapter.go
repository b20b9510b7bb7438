package infrastructure

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/events"
)

// SNSPublisherAdapter wraps SNSEventPublisher behind the events.Publisher
// interface with the broker-outage policy all producers rely on: a publish
// failure is logged and swallowed, never surfaced to the caller. Producing a
// lifecycle event must not crash the transaction that produced it.
//
// The adapter is constructed explicitly at startup and closed at shutdown;
// there is no process-wide broker singleton.
type SNSPublisherAdapter struct {
	snsPublisher *SNSEventPublisher
}

// NewSNSPublisherAdapter creates a new SNS publisher adapter
func NewSNSPublisherAdapter(ctx context.Context, topicArn string) (*SNSPublisherAdapter, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	snsClient := sns.NewFromConfig(cfg)

	return &SNSPublisherAdapter{
		snsPublisher: NewSNSEventPublisher(snsClient, topicArn),
	}, nil
}

// Publish implements events.Publisher. Errors are logged, not returned.
func (p *SNSPublisherAdapter) Publish(ctx context.Context, evts ...*events.Event) error {
	if err := p.snsPublisher.Publish(ctx, evts...); err != nil {
		for _, evt := range evts {
			log.Printf("broker unavailable, dropping event %s (%s): %v", evt.EventType, evt.ID, err)
		}
	}
	return nil
}

// Close closes the publisher
func (p *SNSPublisherAdapter) Close() error {
	// SNS client doesn't need explicit closing
	return nil
}
