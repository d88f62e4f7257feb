package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

func activeRecord() *entity.OTPRecord {
	return &entity.OTPRecord{
		ID:        7,
		UserID:    "user-1",
		Code:      "123456",
		ExpiresAt: testNow.Add(300 * time.Second),
		CreatedAt: testNow,
	}
}

func TestVerifySuccessConsumesAndEnables(t *testing.T) {
	db := &fakeRepoDB{latest: activeRecord()}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "123456"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if len(db.consumedIDs) != 1 || db.consumedIDs[0] != 7 {
		t.Errorf("consumed = %v, want [7]", db.consumedIDs)
	}
	if len(db.enabledFor) != 1 || db.enabledFor[0] != "user-1" {
		t.Errorf("enabled = %v, want [user-1]", db.enabledFor)
	}
}

func TestVerifyMissingFields(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeRepoMessaging{}, &fakeCooldown{})

	for _, in := range []VerifyInput{{}, {UserID: "user-1"}, {OTP: "123456"}} {
		_, err := uc.Verify(context.Background(), in)

		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Msg() != "Missing required fields" {
			t.Errorf("Verify(%+v) = %v, want missing fields", in, err)
		}
	}
}

func TestVerifyFormatCheckedBeforeLookup(t *testing.T) {
	db := &fakeRepoDB{latest: activeRecord()}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	for _, otp := range []string{"12345", "1234567", "12345a", "12 456", "❤23456"} {
		_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: otp})

		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Msg() != "Invalid OTP format" {
			t.Errorf("Verify(otp=%q) = %v, want invalid format", otp, err)
		}
	}

	if db.lookups != 0 {
		t.Errorf("store queried %d times for malformed codes, want 0", db.lookups)
	}
}

func TestVerifyNoCodeFound(t *testing.T) {
	db := &fakeRepoDB{latestErr: goerror.ErrNotFound}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "123456"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Msg() != "No OTP found. Please request a new one." {
		t.Fatalf("verify = %v, want no-code business error", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	rec := activeRecord()
	rec.ExpiresAt = testNow.Add(-time.Second)
	db := &fakeRepoDB{latest: rec}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "123456"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Msg() != "OTP has expired. Please request a new one." {
		t.Fatalf("verify = %v, want expired business error", err)
	}
	if len(db.consumedIDs) != 0 {
		t.Errorf("expired code was consumed")
	}
}

func TestVerifyExactExpiryStillActive(t *testing.T) {
	rec := activeRecord()
	rec.ExpiresAt = testNow
	db := &fakeRepoDB{latest: rec}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	// Expiry is strict: at exactly expires_at the code still verifies.
	if _, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "123456"}); err != nil {
		t.Fatalf("verify at expiry instant: %v", err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	db := &fakeRepoDB{latest: activeRecord()}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "654321"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Msg() != "Invalid OTP. Please try again." {
		t.Fatalf("verify = %v, want mismatch business error", err)
	}
	if len(db.consumedIDs) != 0 {
		t.Errorf("mismatched code was consumed")
	}
}

func TestVerifyEnableFailureLeavesCodeConsumed(t *testing.T) {
	db := &fakeRepoDB{latest: activeRecord(), enableErr: errors.New("deadlock")}
	uc := newTestUsecase(t, db, &fakeRepoMessaging{}, &fakeCooldown{})

	_, err := uc.Verify(context.Background(), VerifyInput{UserID: "user-1", OTP: "123456"})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("verify = %v, want server error", err)
	}

	// The consume write is not rolled back when the flag write fails.
	if len(db.consumedIDs) != 1 {
		t.Errorf("consumed = %v, want the consume kept", db.consumedIDs)
	}
}
