package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaGroupRequired is returned when Subscribe is called without a consumer group.
var ErrKafkaGroupRequired = errors.New("messaging: kafka consumer group is required")

// KafkaConfig configures the Kafka broker.
type KafkaConfig struct {
	// Brokers lists Kafka broker addresses.
	Brokers []string
}

// Kafka is a Broker backed by kafka-go. Writers are created lazily per topic.
type Kafka struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
	closed  bool
}

// NewKafka constructs a Kafka broker.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("messaging: kafka brokers are required")
	}

	return &Kafka{
		brokers: append([]string{}, cfg.Brokers...),
		writers: map[string]*kafka.Writer{},
	}, nil
}

// Close shuts down all readers and writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers := make([]*kafka.Writer, 0, len(k.writers))
	for _, w := range k.writers {
		writers = append(writers, w)
	}
	k.writers = nil
	readers := append([]*kafka.Reader{}, k.readers...)
	k.readers = nil
	k.mu.Unlock()

	var closeErr error
	for _, r := range readers {
		closeErr = errors.Join(closeErr, r.Close())
	}
	for _, w := range writers {
		closeErr = errors.Join(closeErr, w.Close())
	}
	return closeErr
}

// Publish sends a message to a Kafka topic.
func (k *Kafka) Publish(ctx context.Context, topic string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	writer, err := k.getWriter(topic)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: env.Body,
		Time:  time.Now(),
	}
	for hk, hv := range env.Headers {
		if hk != "" {
			msg.Headers = append(msg.Headers, kafka.Header{Key: hk, Value: []byte(hv)})
		}
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

// Subscribe consumes a topic with a consumer group until ctx is canceled.
// Offsets are committed only after the handler returns nil, so failed
// deliveries are re-fetched after a rebalance or restart.
func (k *Kafka) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
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
	if so.group == "" {
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  so.group,
		Topic:    topic,
		MaxBytes: 10e6,
	})

	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return errors.Join(ErrClosed, reader.Close())
	}
	k.readers = append(k.readers, reader)
	k.mu.Unlock()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("messaging: kafka fetch: %w", err)
		}

		if herr := runHandler(ctx, DriverKafka, handler, &kafkaDelivery{msg: msg}); herr != nil {
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("messaging: kafka commit: %w", err)
		}
	}
}

func (k *Kafka) getWriter(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	k.writers[topic] = w
	return w, nil
}

type kafkaDelivery struct {
	msg kafka.Message
}

func (d *kafkaDelivery) Body() []byte { return d.msg.Value }

func (d *kafkaDelivery) Headers() map[string]string {
	if len(d.msg.Headers) == 0 {
		return nil
	}
	headers := make(map[string]string, len(d.msg.Headers))
	for _, h := range d.msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

func (d *kafkaDelivery) ID() string {
	return d.msg.Topic + "/" + strconv.Itoa(d.msg.Partition) + "/" + strconv.FormatInt(d.msg.Offset, 10)
}

func (d *kafkaDelivery) Topic() string { return d.msg.Topic }

func (d *kafkaDelivery) Timestamp() time.Time { return d.msg.Time }
