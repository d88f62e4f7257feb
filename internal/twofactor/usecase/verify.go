package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

type (
	// VerifyInput carries the owning user and the submitted code.
	VerifyInput struct {
		UserID string `validate:"required"`
		OTP    string `validate:"required"`
	}

	// VerifyOutput is empty; success is conveyed by the response message.
	VerifyOutput struct{}
)

// Verify checks the submitted code against the newest unconsumed record.
// On a match it consumes the record and enables the profile's second
// factor. The two writes are sequential without a compensating rollback;
// a failure between them leaves the code consumed with the flag unset.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewBusiness("Missing required fields", goerror.CodeInvalidInput)
	}

	// Format is checked before any store lookup.
	if !isSixDigits(in.OTP) {
		return nil, goerror.NewBusiness("Invalid OTP format", goerror.CodeInvalidFormat)
	}

	record, err := s.repoDB.GetLatestUnconsumedOTP(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No OTP found. Please request a new one.", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load otp record", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if record.State(s.clock.Now()) == entity.StateExpired {
		return nil, goerror.NewBusiness("OTP has expired. Please request a new one.", goerror.CodeExpired)
	}

	if record.Code != in.OTP {
		return nil, goerror.NewBusiness("Invalid OTP. Please try again.", goerror.CodeMismatch)
	}

	if err := s.repoDB.MarkOTPConsumed(ctx, record.ID); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp record", "user_id", in.UserID, "otp_id", record.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.EnableSecondFactor(ctx, in.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to enable second factor", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOutput{}, nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
