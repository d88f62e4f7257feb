package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	jwtgo "github.com/golang-jwt/jwt/v5"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/jwt"
	"github.com/finlens/loanadvisor/internal/pkg/storage"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRepoDB struct {
	created   []entity.Application
	createErr error

	app    *entity.Application
	getErr error

	listApps   []entity.Application
	listTotal  int64
	listErr    error
	lastFilter entity.ApplicationListFilterData

	stats    *entity.ApplicationStats
	statsErr error

	docKeys   map[int64]string
	setDocErr error

	secondFactor    bool
	secondFactorErr error
}

func (f *fakeRepoDB) CreateApplication(_ context.Context, app entity.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, app)
	return nil
}

func (f *fakeRepoDB) GetApplication(_ context.Context, _ int64) (*entity.Application, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.app, nil
}

func (f *fakeRepoDB) GetApplicationList(_ context.Context, filter entity.ApplicationListFilterData) ([]entity.Application, int64, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listApps, f.listTotal, nil
}

func (f *fakeRepoDB) GetApplicationStats(_ context.Context) (*entity.ApplicationStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeRepoDB) SetApplicationDocument(_ context.Context, id int64, documentKey string) error {
	if f.setDocErr != nil {
		return f.setDocErr
	}
	if f.docKeys == nil {
		f.docKeys = map[int64]string{}
	}
	f.docKeys[id] = documentKey
	return nil
}

func (f *fakeRepoDB) GetSecondFactorEnabled(_ context.Context, _ string) (bool, error) {
	if f.secondFactorErr != nil {
		return false, f.secondFactorErr
	}
	return f.secondFactor, nil
}

type fakeInference struct {
	pred  *entity.Prediction
	err   error
	calls int
}

func (f *fakeInference) Predict(_ context.Context, _ entity.ApplicationForm) (*entity.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pred, nil
}

type putCall struct {
	bucket      string
	key         string
	contentType string
	metadata    map[string]string
}

type fakeBlob struct {
	puts       []putCall
	putErr     error
	presignURL string
	presignErr error
}

func (f *fakeBlob) Put(_ context.Context, bucket, key string, _ io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	if f.putErr != nil {
		return storage.ObjectInfo{}, f.putErr
	}
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, contentType: opts.ContentType, metadata: opts.Metadata})
	return storage.ObjectInfo{Bucket: bucket, Key: key}, nil
}

func (f *fakeBlob) Get(context.Context, string, string) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, storage.ErrMissingSigner
}

func (f *fakeBlob) Stat(context.Context, string, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (f *fakeBlob) Delete(context.Context, string, string) error { return nil }

func (f *fakeBlob) PresignGet(context.Context, string, string, time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.presignURL, nil
}

func (f *fakeBlob) Close() error { return nil }

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(`
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`)
	if err != nil {
		t.Fatalf("init casbin model: %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("init casbin enforcer: %v", err)
	}

	if _, err := e.AddPolicies([][]string{
		{"admin", "loan_applications", "read"},
		{"admin", "loan_applications", "list"},
	}); err != nil {
		t.Fatalf("add casbin policies: %v", err)
	}

	return e
}

func newTestUsecase(t *testing.T, db *fakeRepoDB, inf *fakeInference, blob *fakeBlob) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  eligibility:\n    document_bucket: loan-documents\n"))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}

	return NewEligibility(Dependency{
		RepoDB:        db,
		RepoInference: inf,
		Storage:       blob,
		Config:        cfg,
		UID:           &fakeNumberID{},
		UUID:          &fakeStringID{value: "doc-uuid"},
		Clock:         clock.Fixed{At: testNow},
		Validator:     v10,
		Enforcer:      newTestEnforcer(t),
		Instrument:    instrument.NewNoop(),
	})
}

func authCtx(userID, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: jwtgo.RegisteredClaims{Subject: userID},
		Role:             role,
	})
}
