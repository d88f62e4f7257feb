package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/finlens/loanadvisor/internal/notification/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/mail"
	"github.com/finlens/loanadvisor/internal/pkg/valueobject"
)

const otpEmailSubject = "Your {{.company_name}} verification code"

const otpEmailBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Verify your identity</h2>
  <p>Use the code below to finish enabling two-factor authentication on your {{.company_name}} account.</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.code}}</p>
  <p>This code expires in {{.expires_minutes}} minutes. If you did not request it, you can safely ignore this email.</p>
  <p>Need help? Contact us at {{.support_email}}.</p>
  <p style="color: #7b8794; font-size: 12px;">&copy; {{.year}} {{.company_name}}</p>
</body>
</html>`

type ConsumeOTPIssuedInput struct {
	UserID    string `validate:"required"`
	Email     string `validate:"required,email"`
	Code      string `validate:"required,len=6"`
	ExpiresAt time.Time
}

// ConsumeOTPIssued sends the verification code email for a freshly issued
// code and records the attempt in the delivery log. A failed send is recorded
// as failed and not returned to the broker; redelivery would issue a stale
// code email since the code itself is not reissued.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	data := s.baseEmailTemplateData()
	data["code"] = in.Code
	data["expires_minutes"] = s.expiresMinutes(in.ExpiresAt)

	subject, err := s.renderTemplate("subject", otpEmailSubject, data)
	if err != nil {
		return goerror.NewServer(err)
	}

	body, err := s.renderTemplate("body", otpEmailBody, data)
	if err != nil {
		return goerror.NewServer(err)
	}

	dl := entity.CreateDeliveryLog{
		ID:        s.uid.Generate(),
		UserID:    in.UserID,
		Recipient: in.Email,
		Subject:   subject,
		Status:    entity.DeliveryStatusQueued,
	}
	if err := s.repoDB.CreateDeliveryLog(ctx, dl); err != nil {
		return goerror.NewServer(err)
	}

	mailErr := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  subject,
		HTMLBody: body,
	})
	if mailErr == nil {
		up := entity.UpdateDeliveryLog{
			ID:               dl.ID,
			Status:           entity.DeliveryStatusSent,
			ProviderResponse: valueobject.JSONMap{},
		}
		if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
			slog.ErrorContext(ctx, "failed to repo update delivery log status sent", "log_id", dl.ID, "error", err)
		}
		return nil
	}

	nextRetry := s.clock.Now().Add(s.retryDelay())
	up := entity.UpdateDeliveryLog{
		ID:               dl.ID,
		Status:           entity.DeliveryStatusFailed,
		ProviderResponse: valueobject.JSONMap{"error": mailErr.Error()},
		NextRetryAt:      &nextRetry,
	}
	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status failed", "log_id", dl.ID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send verification code email", "log_id", dl.ID, "user_id", in.UserID, "error", mailErr)

	return nil
}

func (s *Usecase) expiresMinutes(expiresAt time.Time) int {
	mins := int(expiresAt.Sub(s.clock.Now()).Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return mins
}

func (s *Usecase) retryDelay() time.Duration {
	if secs := s.cfg.GetInt("modules.notification.retry_delay"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 2 * time.Minute
}
