// Package twofactor wires the email-OTP second-factor module.
package twofactor

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/limiter"
	"github.com/finlens/loanadvisor/internal/pkg/messaging"
	"github.com/finlens/loanadvisor/internal/pkg/router"
	"github.com/finlens/loanadvisor/internal/pkg/uid"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
	"github.com/finlens/loanadvisor/internal/twofactor/inbound"
	"github.com/finlens/loanadvisor/internal/twofactor/outbound/db"
	"github.com/finlens/loanadvisor/internal/twofactor/outbound/mq"
	"github.com/finlens/loanadvisor/internal/twofactor/usecase"
)

// Dependency lists the shared infrastructure the module needs.
type Dependency struct {
	DBConn     *pgxpool.Pool
	Messaging  messaging.Broker
	Cooldown   limiter.Cooldown
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Router     *router.Router
}

// New wires the twofactor module into the router.
func New(dep Dependency) error {
	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMQ := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.NewTwoFactor(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMQ,
		Cooldown:      dep.Cooldown,
		Config:        dep.Config,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Validator:     dep.Validator,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	return nil
}
