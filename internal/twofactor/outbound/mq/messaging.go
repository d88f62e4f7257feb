// Package mq publishes twofactor domain events to the message broker.
package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"

	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/messaging"
	"github.com/finlens/loanadvisor/internal/shared/event"
	"github.com/finlens/loanadvisor/internal/twofactor/usecase"
)

const keyOfCorrelationID string = "cID"

// Messaging adapts the broker client to the usecase publishing contract.
type Messaging struct {
	broker messaging.Broker
	ins    instrument.Instrumentation
}

// NewMessaging constructs the twofactor publisher.
func NewMessaging(broker messaging.Broker, ins instrument.Instrumentation) *Messaging {
	return &Messaging{broker: broker, ins: ins}
}

// PublishOTPIssued emits an otp_issued event carrying the code for the
// notification module to deliver by email.
func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("twofactor.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.OTPIssuedMessage{
		UserID:    msg.UserID,
		Email:     msg.Email,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = m.broker.Publish(ctx, event.OTPIssuedDestination, messaging.Envelope{
		Body:    body,
		Key:     msg.UserID,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
