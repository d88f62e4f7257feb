package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQChannelRequired is returned when Subscribe is called without a channel.
var ErrNSQChannelRequired = errors.New("messaging: nsq channel is required")

// NSQConfig configures the NSQ broker.
type NSQConfig struct {
	// ProducerAddr is the nsqd address used for publishing.
	ProducerAddr string
	// LookupdAddrs lists nsqlookupd addresses for consumers.
	LookupdAddrs []string
	// NSQDAddrs lists nsqd addresses for consumers when no lookupd is available.
	NSQDAddrs []string
}

// NSQ is a Broker backed by nsqd.
type NSQ struct {
	producer     *nsq.Producer
	lookupdAddrs []string
	nsqdAddrs    []string

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

// NewNSQ constructs an NSQ broker. The producer is optional and only
// created when ProducerAddr is set.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	var producer *nsq.Producer
	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		producer = p
	}

	return &NSQ{
		producer:     producer,
		lookupdAddrs: append([]string{}, cfg.LookupdAddrs...),
		nsqdAddrs:    append([]string{}, cfg.NSQDAddrs...),
	}, nil
}

// Close stops consumers and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := append([]*nsq.Consumer{}, n.consumers...)
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish sends a message to an NSQ topic.
func (n *NSQ) Publish(ctx context.Context, topic string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return errors.New("messaging: nsq producer address is required")
	}

	if err := n.producer.Publish(topic, env.Body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

// Subscribe consumes a topic on the given channel until ctx is canceled.
func (n *NSQ) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if len(n.lookupdAddrs) == 0 && len(n.nsqdAddrs) == 0 {
		return errors.New("messaging: nsq lookupd/nsqd addresses are required")
	}

	so := newSubscribeOptions(opts...)
	if so.channel == "" {
		return ErrNSQChannelRequired
	}

	ccfg := nsq.NewConfig()
	if ccfg.MaxInFlight < so.concurrency {
		ccfg.MaxInFlight = so.concurrency
	}

	consumer, err := nsq.NewConsumer(topic, so.channel, ccfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		return runHandler(ctx, DriverNSQ, handler, &nsqDelivery{topic: topic, msg: m})
	}), so.concurrency)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		consumer.Stop()
		<-consumer.StopChan
		return ErrClosed
	}
	n.consumers = append(n.consumers, consumer)
	n.mu.Unlock()

	if len(n.lookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqdAddrs)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

type nsqDelivery struct {
	topic string
	msg   *nsq.Message
}

func (d *nsqDelivery) Body() []byte { return d.msg.Body }

func (d *nsqDelivery) Headers() map[string]string { return nil }

func (d *nsqDelivery) ID() string {
	return string(d.msg.ID[:])
}

func (d *nsqDelivery) Topic() string { return d.topic }

func (d *nsqDelivery) Timestamp() time.Time {
	return time.Unix(0, d.msg.Timestamp)
}
