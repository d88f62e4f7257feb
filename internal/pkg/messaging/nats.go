package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS broker.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string
	// Options are passed to the NATS client.
	Options []nats.Option
}

// NATS is a Broker backed by core NATS subjects.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS constructs a NATS broker.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, errors.New("messaging: nats url is required")
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains subscriptions and closes the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := append([]*nats.Subscription{}, n.subs...)
	n.mu.Unlock()

	var closeErr error
	for _, sub := range subs {
		closeErr = errors.Join(closeErr, sub.Drain())
	}
	closeErr = errors.Join(closeErr, n.conn.Drain())
	n.conn.Close()
	return closeErr
}

// Publish sends a message to a NATS subject.
func (n *NATS) Publish(ctx context.Context, topic string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	msg := nats.NewMsg(topic)
	msg.Data = env.Body
	for k, v := range env.Headers {
		if k != "" {
			msg.Header.Set(k, v)
		}
	}

	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

// Subscribe consumes a subject until ctx is canceled. When a queue group
// is set, deliveries are load balanced across subscribers of the group.
func (n *NATS) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	so := newSubscribeOptions(opts...)

	msgCh := make(chan *nats.Msg, so.concurrency)
	sub, err := n.conn.ChanQueueSubscribe(topic, so.queue, msgCh)
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errors.Join(ErrClosed, sub.Unsubscribe())
	}
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	var wg sync.WaitGroup
	for range so.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range msgCh {
				// Core NATS is at-most-once. Handler errors are logged
				// inside runHandler, there is nothing to requeue.
				_ = runHandler(ctx, DriverNATS, handler, &natsDelivery{msg: msg, received: time.Now()})
			}
		}()
	}

	<-ctx.Done()
	uerr := sub.Drain()
	close(msgCh)
	wg.Wait()

	return errors.Join(ctx.Err(), uerr)
}

type natsDelivery struct {
	msg      *nats.Msg
	received time.Time
}

func (d *natsDelivery) Body() []byte { return d.msg.Data }

func (d *natsDelivery) Headers() map[string]string {
	if len(d.msg.Header) == 0 {
		return nil
	}
	headers := make(map[string]string, len(d.msg.Header))
	for k := range d.msg.Header {
		headers[k] = d.msg.Header.Get(k)
	}
	return headers
}

func (d *natsDelivery) ID() string {
	return d.msg.Header.Get(nats.MsgIdHdr)
}

func (d *natsDelivery) Topic() string { return d.msg.Subject }

func (d *natsDelivery) Timestamp() time.Time { return d.received }
