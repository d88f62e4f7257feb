package messaging

type subscribeOptions struct {
	// concurrency is the number of handlers processing deliveries in parallel.
	concurrency int

	// channel is the NSQ channel name.
	channel string

	// group is the Kafka consumer group.
	group string

	// queue is the NATS queue group.
	queue string

	// subscription is the Google Pub/Sub subscription ID.
	subscription string
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeOptions)

func newSubscribeOptions(opts ...SubscribeOption) subscribeOptions {
	so := subscribeOptions{concurrency: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&so)
		}
	}
	if so.concurrency <= 0 {
		so.concurrency = 1
	}
	return so
}

// WithConcurrency sets how many handlers process deliveries in parallel.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) { o.concurrency = n }
}

// WithChannel sets the NSQ channel name.
func WithChannel(channel string) SubscribeOption {
	return func(o *subscribeOptions) { o.channel = channel }
}

// WithGroup sets the Kafka consumer group.
func WithGroup(group string) SubscribeOption {
	return func(o *subscribeOptions) { o.group = group }
}

// WithQueue sets the NATS queue group.
func WithQueue(queue string) SubscribeOption {
	return func(o *subscribeOptions) { o.queue = queue }
}

// WithSubscription sets the Google Pub/Sub subscription ID.
func WithSubscription(subscription string) SubscribeOption {
	return func(o *subscribeOptions) { o.subscription = subscription }
}
