// Package eligibility scores loan applications and manages their lifecycle,
// from intake through admin review and document collection.
package eligibility

import (
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finlens/loanadvisor/internal/eligibility/inbound"
	"github.com/finlens/loanadvisor/internal/eligibility/outbound/db"
	"github.com/finlens/loanadvisor/internal/eligibility/outbound/inference"
	"github.com/finlens/loanadvisor/internal/eligibility/usecase"
	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/hash"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/router"
	"github.com/finlens/loanadvisor/internal/pkg/storage"
	"github.com/finlens/loanadvisor/internal/pkg/uid"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool
	Storage    storage.Blob
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Validator  validator.Validator
	Enforcer   *casbin.Enforcer
	HMAC       hash.Hash
	Router     *router.Router
}

func New(dep Dependency) error {
	dbApp := db.NewDB(dep.DBConn, dep.Instrument)

	timeout := 10 * time.Second
	if secs := dep.Config.GetInt("modules.eligibility.inference_timeout"); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	infClient := inference.New(
		dep.Config.GetString("modules.eligibility.inference_url"),
		timeout,
		dep.HMAC,
		dep.Instrument,
	)

	uc := usecase.NewEligibility(usecase.Dependency{
		RepoDB:        dbApp,
		RepoInference: infClient,
		Storage:       dep.Storage,
		Config:        dep.Config,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Validator:     dep.Validator,
		Enforcer:      dep.Enforcer,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
