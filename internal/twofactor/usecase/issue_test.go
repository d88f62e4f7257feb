package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/limiter"
)

func TestIssueGeneratesSixDigitCode(t *testing.T) {
	db := &fakeRepoDB{}
	mq := &fakeRepoMessaging{}
	cd := &fakeCooldown{}
	uc := newTestUsecase(t, db, mq, cd)

	_, err := uc.Issue(context.Background(), IssueInput{
		Email:  "user@example.com",
		UserID: "11111111-2222-3333-4444-555555555555",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if len(db.created) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(db.created))
	}
	rec := db.created[0]

	if len(rec.Code) != 6 {
		t.Errorf("code %q is not six digits", rec.Code)
	}
	for _, c := range rec.Code {
		if c < '0' || c > '9' {
			t.Errorf("code %q contains non-digit %q", rec.Code, c)
		}
	}
	if rec.Code[0] == '0' {
		t.Errorf("code %q has a leading zero", rec.Code)
	}

	wantExpiry := testNow.Add(300 * time.Second)
	if !rec.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", rec.ExpiresAt, wantExpiry)
	}
}

func TestIssuePublishesEvent(t *testing.T) {
	db := &fakeRepoDB{}
	mq := &fakeRepoMessaging{}
	uc := newTestUsecase(t, db, mq, &fakeCooldown{})

	_, err := uc.Issue(context.Background(), IssueInput{
		Email:  "user@example.com",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if len(mq.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(mq.published))
	}
	ev := mq.published[0]
	if ev.UserID != "user-1" || ev.Email != "user@example.com" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Code != db.created[0].Code {
		t.Errorf("event code %q differs from stored code %q", ev.Code, db.created[0].Code)
	}
}

func TestIssueInvalidInput(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeRepoMessaging{}, &fakeCooldown{})

	cases := []IssueInput{
		{},
		{Email: "not-an-email", UserID: "user-1"},
		{Email: "user@example.com"},
	}
	for _, in := range cases {
		_, err := uc.Issue(context.Background(), in)

		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Errorf("Issue(%+v) = %v, want invalid input", in, err)
		}
	}
}

func TestIssueCoolingDown(t *testing.T) {
	cd := &fakeCooldown{acquireErr: limiter.ErrCoolingDown}
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeRepoMessaging{}, cd)

	_, err := uc.Issue(context.Background(), IssueInput{
		Email:  "user@example.com",
		UserID: "user-1",
	})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("issue = %v, want goerror", err)
	}
	if gerr.Code() != goerror.CodeTooManyRequest {
		t.Errorf("code = %v, want CodeTooManyRequest", gerr.Code())
	}
}

func TestIssueStorageFailureReleasesCooldown(t *testing.T) {
	db := &fakeRepoDB{createErr: errors.New("connection refused")}
	cd := &fakeCooldown{}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, cd)

	_, err := uc.Issue(context.Background(), IssueInput{
		Email:  "user@example.com",
		UserID: "user-1",
	})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("issue = %v, want server error", err)
	}
	if len(cd.released) != 1 || cd.released[0] != "otp:user-1" {
		t.Errorf("released = %v, want the acquired cooldown key", cd.released)
	}
}

func TestIssuePublishFailureKeepsRecord(t *testing.T) {
	db := &fakeRepoDB{}
	mq := &fakeRepoMessaging{publishErr: errors.New("broker down")}
	cd := &fakeCooldown{}
	uc := newTestUsecase(t, db, mq, cd)

	_, err := uc.Issue(context.Background(), IssueInput{
		Email:  "user@example.com",
		UserID: "user-1",
	})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("issue = %v, want server error", err)
	}
	if len(db.created) != 1 {
		t.Errorf("stored records = %d, want the insert kept", len(db.created))
	}
	if len(cd.released) != 0 {
		t.Errorf("cooldown released on publish failure; the code was persisted")
	}
}
