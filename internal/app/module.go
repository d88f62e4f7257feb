package app

import (
	"log/slog"
	"os"

	"github.com/finlens/loanadvisor/internal/eligibility"
	"github.com/finlens/loanadvisor/internal/notification"
	"github.com/finlens/loanadvisor/internal/twofactor"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.twofactor.enabled") {
		if err := twofactor.New(twofactor.Dependency{
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Cooldown:   a.cooldown,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module twofactor", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.eligibility.enabled") {
		if err := eligibility.New(eligibility.Dependency{
			DBConn:     a.dbConn,
			Storage:    a.storage,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
			Enforcer:   a.casbin,
			HMAC:       a.hmac,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module eligibility", "error", err)
			os.Exit(1)
		}
	}
}
