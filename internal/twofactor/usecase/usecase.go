// Package usecase implements the second-factor enrollment flows: issuing
// email verification codes and verifying them against the code store.
package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/limiter"
	"github.com/finlens/loanadvisor/internal/pkg/uid"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

// OTPIssuedEvent is handed to the messaging repository after a code is
// persisted, to trigger email delivery out of band.
type OTPIssuedEvent struct {
	UserID    string
	Email     string
	Code      string
	ExpiresAt time.Time
}

type repoDB interface {
	CreateOTP(ctx context.Context, in entity.NewOTPRecord) error
	GetLatestUnconsumedOTP(ctx context.Context, userID string) (*entity.OTPRecord, error)
	MarkOTPConsumed(ctx context.Context, id int64) error
	EnableSecondFactor(ctx context.Context, userID string) error
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

// Usecase carries the dependencies of the twofactor flows.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	cooldown      limiter.Cooldown
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	validator     validator.Validator
	ins           instrument.Instrumentation
}

// Dependency lists what NewTwoFactor needs, wired by the module entry point.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Cooldown      limiter.Cooldown
	Config        config.Config
	UID           uid.NumberID
	Clock         clock.Clocker
	Validator     validator.Validator
	Instrument    instrument.Instrumentation
}

// NewTwoFactor constructs the twofactor usecase.
func NewTwoFactor(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		cooldown:      dep.Cooldown,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		validator:     dep.Validator,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.usecase").Start(ctx, name)
}

func (s *Usecase) codeTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.twofactor.code_ttl"); ttl > 0 {
		return ttl
	}
	return 300 * time.Second
}

func (s *Usecase) resendCooldown() time.Duration {
	if window := s.cfg.GetSecond("modules.twofactor.resend_cooldown"); window > 0 {
		return window
	}
	return 60 * time.Second
}
