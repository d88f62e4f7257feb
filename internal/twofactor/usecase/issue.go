package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/limiter"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

type (
	// IssueInput carries the delivery address and the owning user.
	IssueInput struct {
		Email  string `validate:"required,email"`
		UserID string `validate:"required"`
	}

	// IssueOutput is empty on purpose; the code is never echoed back.
	IssueOutput struct{}
)

const (
	codeFloor = 100000
	codeSpan  = 900000
)

// Issue generates a fresh 6-digit code, persists it, and publishes an
// otp_issued event for delivery. Older unconsumed codes are deliberately
// left untouched; the verifier only ever consults the newest one.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.cooldown.Acquire(ctx, "otp:"+in.UserID, s.resendCooldown()); err != nil {
		if errors.Is(err, limiter.ErrCoolingDown) {
			return nil, goerror.NewBusiness("Please wait before requesting a new code.", goerror.CodeTooManyRequest)
		}
		slog.ErrorContext(ctx, "failed to check resend cooldown", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, goerror.NewServer(err)
	}
	expiresAt := s.clock.Now().Add(s.codeTTL())

	record := entity.NewOTPRecord{
		ID:        s.uid.Generate(),
		UserID:    in.UserID,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	if err := s.repoDB.CreateOTP(ctx, record); err != nil {
		// Free the cooldown so the user can retry after a storage failure.
		if rerr := s.cooldown.Release(ctx, "otp:"+in.UserID); rerr != nil {
			slog.WarnContext(ctx, "failed to release resend cooldown", "user_id", in.UserID, "error", rerr)
		}
		slog.ErrorContext(ctx, "failed to persist otp record", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// The record is already persisted; a publish failure surfaces as a
	// server error without rolling the insert back.
	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		UserID:    in.UserID,
		Email:     in.Email,
		Code:      code,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued event", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &IssueOutput{}, nil
}

// generateCode draws a uniform random integer in [100000, 999999]. The
// range floor guarantees six digits without zero padding.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(codeFloor+n.Int64(), 10), nil
}
