package infrastructure

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSNSClient struct {
	err    error
	inputs []*sns.PublishBatchInput
}

func (c *stubSNSClient) PublishBatch(_ context.Context, params *sns.PublishBatchInput, _ ...func(*sns.Options)) (*sns.PublishBatchOutput, error) {
	c.inputs = append(c.inputs, params)
	if c.err != nil {
		return nil, c.err
	}
	return &sns.PublishBatchOutput{}, nil
}

func TestSNSPublisherAdapter_BrokerOutageIsSwallowed(t *testing.T) {
	client := &stubSNSClient{err: errors.New("connection refused")}
	adapter := &SNSPublisherAdapter{
		snsPublisher: NewSNSEventPublisher(client, "arn:aws:sns:local:000000000000:events"),
	}

	event := events.NewEvent("order-1", events.OrderCreatedEvent,
		map[string]interface{}{"order_id": "order-123"})

	// Producing a lifecycle event must not fail the transaction that
	// produced it: the outage is logged and the caller sees success.
	err := adapter.Publish(context.Background(), event)

	assert.NoError(t, err)
	require.Len(t, client.inputs, 1)
}

func TestSNSEventPublisher_PublishFailureSurfaces(t *testing.T) {
	client := &stubSNSClient{err: errors.New("connection refused")}
	publisher := NewSNSEventPublisher(client, "arn:aws:sns:local:000000000000:events")

	event := events.NewEvent("order-1", events.OrderCreatedEvent,
		map[string]interface{}{"order_id": "order-123"})

	// The raw publisher reports the failure; only the adapter swallows it.
	assert.Error(t, publisher.Publish(context.Background(), event))
}

func TestSNSEventPublisher_MessageAttributesCarryEventType(t *testing.T) {
	client := &stubSNSClient{}
	publisher := NewSNSEventPublisher(client, "arn:aws:sns:local:000000000000:events")

	event := events.NewEvent("order-1", events.OrderCreatedEvent,
		map[string]interface{}{"order_id": "order-123"})

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, client.inputs, 1)
	require.Len(t, client.inputs[0].PublishBatchRequestEntries, 1)

	attr, ok := client.inputs[0].PublishBatchRequestEntries[0].MessageAttributes["event_type"]
	require.True(t, ok)
	assert.Equal(t, events.OrderCreatedEvent, *attr.StringValue)
}
