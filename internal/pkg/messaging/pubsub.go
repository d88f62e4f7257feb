package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubSubscriptionRequired is returned when Subscribe is called without a subscription ID.
var ErrPubSubSubscriptionRequired = errors.New("messaging: pubsub subscription is required")

// PubSubConfig configures the Google Pub/Sub broker.
type PubSubConfig struct {
	// ProjectID is the Google Cloud project ID.
	ProjectID string
	// ClientOptions are used when creating the client.
	ClientOptions []option.ClientOption
}

// PubSub is a Broker backed by Google Pub/Sub. Publishers are created
// lazily per topic.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
	closed     bool
}

// NewPubSub constructs a Pub/Sub broker.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("messaging: pubsub project id is required")
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: client, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close stops publishers and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	publishers := make([]*pubsub.Publisher, 0, len(p.publishers))
	for _, pub := range p.publishers {
		publishers = append(publishers, pub)
	}
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range publishers {
		pub.Stop()
	}
	return p.client.Close()
}

// Publish sends a message to a Pub/Sub topic and waits for the server ack.
func (p *PubSub) Publish(ctx context.Context, topic string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	pub, err := p.getPublisher(topic)
	if err != nil {
		return err
	}

	res := pub.Publish(ctx, &pubsub.Message{
		Data:        env.Body,
		Attributes:  env.Headers,
		OrderingKey: env.Key,
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return nil
}

// Subscribe receives from a subscription until ctx is canceled. The topic
// argument is informational only, routing is defined by the subscription.
func (p *PubSub) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	so := newSubscribeOptions(opts...)
	if so.subscription == "" {
		return ErrPubSubSubscriptionRequired
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	sub := p.client.Subscriber(so.subscription)
	p.mu.Unlock()

	sub.ReceiveSettings.NumGoroutines = so.concurrency

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := runHandler(ctx, DriverGooglePubSub, handler, &pubsubDelivery{topic: topic, msg: m}); err != nil {
			m.Nack()
			return
		}
		m.Ack()
	})
}

func (p *PubSub) getPublisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}
	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub, nil
}

type pubsubDelivery struct {
	topic string
	msg   *pubsub.Message
}

func (d *pubsubDelivery) Body() []byte { return d.msg.Data }

func (d *pubsubDelivery) Headers() map[string]string { return d.msg.Attributes }

func (d *pubsubDelivery) ID() string { return d.msg.ID }

func (d *pubsubDelivery) Topic() string { return d.topic }

func (d *pubsubDelivery) Timestamp() time.Time { return d.msg.PublishTime }
