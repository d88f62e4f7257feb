package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/finlens/loanadvisor/internal/notification/usecase"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/shared/event"
)

type fakeUC struct {
	inputs     []usecase.ConsumeOTPIssuedInput
	consumeErr error
}

func (f *fakeUC) ConsumeOTPIssued(_ context.Context, in usecase.ConsumeOTPIssuedInput) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.inputs = append(f.inputs, in)
	return nil
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

type fakeDelivery struct {
	body    []byte
	headers map[string]string
}

func (f *fakeDelivery) Body() []byte               { return f.body }
func (f *fakeDelivery) Headers() map[string]string { return f.headers }
func (f *fakeDelivery) ID() string                 { return "msg-1" }
func (f *fakeDelivery) Topic() string              { return event.OTPIssuedDestination }
func (f *fakeDelivery) Timestamp() time.Time       { return time.Time{} }

func newTestHandler(uc *fakeUC) *MQHandler {
	return &MQHandler{
		uc:   uc,
		uuid: &fakeStringID{value: "generated-cid"},
		ins:  instrument.NewNoop(),
	}
}

func TestOTPIssuedNotificationForwardsPayload(t *testing.T) {
	uc := &fakeUC{}
	h := newTestHandler(uc)

	expires := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	body, err := json.Marshal(event.OTPIssuedMessage{
		UserID:    "user-1",
		Email:     "jane@example.com",
		Code:      "123456",
		ExpiresAt: expires,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	err = h.OTPIssuedNotification(context.Background(), &fakeDelivery{body: body, headers: map[string]string{}})
	if err != nil {
		t.Fatalf("OTPIssuedNotification() error = %v", err)
	}

	if len(uc.inputs) != 1 {
		t.Fatalf("consumed %d messages, want 1", len(uc.inputs))
	}
	in := uc.inputs[0]
	if in.UserID != "user-1" || in.Email != "jane@example.com" || in.Code != "123456" || !in.ExpiresAt.Equal(expires) {
		t.Errorf("input = %+v", in)
	}
}

func TestOTPIssuedNotificationMalformedBodyNotRedelivered(t *testing.T) {
	uc := &fakeUC{}
	h := newTestHandler(uc)

	d := &fakeDelivery{body: []byte("not json"), headers: map[string]string{}}
	if err := h.OTPIssuedNotification(context.Background(), d); err != nil {
		t.Fatalf("OTPIssuedNotification() error = %v, want nil so the broker drops the message", err)
	}
	if len(uc.inputs) != 0 {
		t.Error("malformed message reached the usecase")
	}
}

func TestOTPIssuedNotificationUsecaseFailureRedelivered(t *testing.T) {
	uc := &fakeUC{consumeErr: errors.New("db down")}
	h := newTestHandler(uc)

	body, _ := json.Marshal(event.OTPIssuedMessage{UserID: "user-1", Email: "jane@example.com", Code: "123456"})
	d := &fakeDelivery{body: body, headers: map[string]string{}}

	if err := h.OTPIssuedNotification(context.Background(), d); err == nil {
		t.Fatal("OTPIssuedNotification() error = nil, want the usecase error back for redelivery")
	}
}
