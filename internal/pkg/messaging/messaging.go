// Package messaging provides a broker-agnostic publish/subscribe client
// so domain modules do not depend on a concrete broker. Implementations
// exist for NSQ, NATS, Kafka, and Google Pub/Sub.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/finlens/loanadvisor/internal/pkg/stacktrace"
)

var (
	// ErrUnsupported is returned when the selected broker cannot perform the operation.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrTopicRequired is returned when Publish or Subscribe is called with an empty topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Subscribe is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned when the broker has already been closed.
	ErrClosed = errors.New("messaging: broker is closed")
)

// Broker can publish messages and run blocking subscriptions.
type Broker interface {
	io.Closer

	// Publish sends one message to the destination topic (subject for NATS).
	Publish(ctx context.Context, topic string, env Envelope) error

	// Subscribe consumes messages from the topic until ctx is canceled.
	// A nil handler return acknowledges the message, a non-nil return
	// requeues it where the broker supports redelivery.
	Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error
}

// Envelope is an outgoing broker-agnostic message.
type Envelope struct {
	// Body is the message payload.
	Body []byte
	// Key is used for partitioning (Kafka) or ordering (Pub/Sub).
	Key string
	// Headers carry string metadata where the broker supports it.
	Headers map[string]string
}

// Delivery is a received broker-agnostic message.
type Delivery interface {
	Body() []byte
	Headers() map[string]string
	ID() string
	Topic() string
	Timestamp() time.Time
}

// Handler processes one delivery.
type Handler func(ctx context.Context, d Delivery) error

func runHandler(ctx context.Context, driver string, handler Handler, d Delivery) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			paths := stacktrace.InternalPaths(stack)
			if len(paths) == 0 {
				slog.ErrorContext(ctx, "panic in message handler", "driver", driver, "panic", rvr, "stack", string(stack))
			} else {
				slog.ErrorContext(ctx, "panic in message handler", "driver", driver, "panic", rvr, "stack", paths)
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return handler(ctx, d)
}
