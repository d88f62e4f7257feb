package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRepoDB struct {
	created     []entity.NewOTPRecord
	createErr   error
	latest      *entity.OTPRecord
	latestErr   error
	lookups     int
	consumedIDs []int64
	consumeErr  error
	enabledFor  []string
	enableErr   error
}

func (f *fakeRepoDB) CreateOTP(_ context.Context, in entity.NewOTPRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeRepoDB) GetLatestUnconsumedOTP(_ context.Context, _ string) (*entity.OTPRecord, error) {
	f.lookups++
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeRepoDB) MarkOTPConsumed(_ context.Context, id int64) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	f.consumedIDs = append(f.consumedIDs, id)
	return nil
}

func (f *fakeRepoDB) EnableSecondFactor(_ context.Context, userID string) error {
	if f.enableErr != nil {
		return f.enableErr
	}
	f.enabledFor = append(f.enabledFor, userID)
	return nil
}

type fakeRepoMessaging struct {
	published  []OTPIssuedEvent
	publishErr error
}

func (f *fakeRepoMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeCooldown struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (f *fakeCooldown) Acquire(_ context.Context, key string, _ time.Duration) (time.Duration, error) {
	if f.acquireErr != nil {
		return time.Minute, f.acquireErr
	}
	f.acquired = append(f.acquired, key)
	return 0, nil
}

func (f *fakeCooldown) Release(_ context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

func newTestUsecase(t *testing.T, db *fakeRepoDB, mq *fakeRepoMessaging, cd *fakeCooldown) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(""))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}

	return NewTwoFactor(Dependency{
		RepoDB:        db,
		RepoMessaging: mq,
		Cooldown:      cd,
		Config:        cfg,
		UID:           &fakeNumberID{},
		Clock:         clock.Fixed{At: testNow},
		Validator:     v10,
		Instrument:    instrument.NewNoop(),
	})
}
