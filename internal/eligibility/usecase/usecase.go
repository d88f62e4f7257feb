package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/jwt"
	"github.com/finlens/loanadvisor/internal/pkg/storage"
	"github.com/finlens/loanadvisor/internal/pkg/uid"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
)

// casbin policy object/action pairs for the admin surface.
const (
	objLoanApplications = "loan_applications"
	actRead             = "read"
	actList             = "list"
)

type repoDB interface {
	CreateApplication(ctx context.Context, app entity.Application) error
	GetApplication(ctx context.Context, id int64) (*entity.Application, error)
	GetApplicationList(ctx context.Context, filter entity.ApplicationListFilterData) ([]entity.Application, int64, error)
	GetApplicationStats(ctx context.Context) (*entity.ApplicationStats, error)
	SetApplicationDocument(ctx context.Context, id int64, documentKey string) error
	GetSecondFactorEnabled(ctx context.Context, userID string) (bool, error)
}

type repoInference interface {
	Predict(ctx context.Context, form entity.ApplicationForm) (*entity.Prediction, error)
}

type Usecase struct {
	repoDB        repoDB
	repoInference repoInference
	storage       storage.Blob
	cfg           config.Config
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	validator     validator.Validator
	enforcer      *casbin.Enforcer
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoInference repoInference
	Storage       storage.Blob
	Config        config.Config
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Validator     validator.Validator
	Enforcer      *casbin.Enforcer
	Instrument    instrument.Instrumentation
}

func NewEligibility(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoInference: dep.RepoInference,
		storage:       dep.Storage,
		cfg:           dep.Config,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		validator:     dep.Validator,
		enforcer:      dep.Enforcer,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("eligibility.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

// authenticatedAndAuthorized resolves the claims and checks the caller's role
// against the casbin policy for obj/act.
func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

func (s *Usecase) documentBucket() string {
	return s.cfg.GetString("modules.eligibility.document_bucket")
}

func (s *Usecase) documentURLTTL() time.Duration {
	if secs := s.cfg.GetInt("modules.eligibility.document_url_ttl"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 15 * time.Minute
}
