package usecase

import (
	"errors"
	"testing"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

func storedApplication() *entity.Application {
	return &entity.Application{
		ID:          42,
		UserID:      "owner-1",
		Eligible:    true,
		Probability: 0.76,
		Source:      entity.SourceModel,
		CreatedAt:   testNow,
	}
}

func TestDetailOwnerAccess(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication()}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	out, err := uc.Detail(authCtx("owner-1", "user"), DetailInput{ID: 42})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}

	if out.Application.ID != 42 || out.Application.UserID != "owner-1" {
		t.Errorf("application = %+v", out.Application)
	}
	if out.DocumentURL != "" {
		t.Errorf("document url = %q, want empty without a document", out.DocumentURL)
	}
}

func TestDetailAdminAccessToForeignApplication(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication()}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	out, err := uc.Detail(authCtx("admin-1", "admin"), DetailInput{ID: 42})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	if out.Application.UserID != "owner-1" {
		t.Errorf("application = %+v", out.Application)
	}
}

func TestDetailForeignApplicationForbidden(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication()}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	_, err := uc.Detail(authCtx("other-user", "user"), DetailInput{ID: 42})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if gerr.Msg() != "Account not allowed" {
		t.Errorf("message = %q", gerr.Msg())
	}
}

func TestDetailNotFound(t *testing.T) {
	db := &fakeRepoDB{getErr: goerror.ErrNotFound}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	_, err := uc.Detail(authCtx("owner-1", "user"), DetailInput{ID: 42})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestDetailPresignsDocumentURL(t *testing.T) {
	app := storedApplication()
	app.DocumentKey = "owner-1/42/doc-uuid.pdf"
	db := &fakeRepoDB{app: app}
	blob := &fakeBlob{presignURL: "https://storage.example/signed"}
	uc := newTestUsecase(t, db, &fakeInference{}, blob)

	out, err := uc.Detail(authCtx("owner-1", "user"), DetailInput{ID: 42})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	if out.DocumentURL != "https://storage.example/signed" {
		t.Errorf("document url = %q", out.DocumentURL)
	}
}

func TestDetailPresignFailureIsNotFatal(t *testing.T) {
	app := storedApplication()
	app.DocumentKey = "owner-1/42/doc-uuid.pdf"
	db := &fakeRepoDB{app: app}
	blob := &fakeBlob{presignErr: errors.New("signer unavailable")}
	uc := newTestUsecase(t, db, &fakeInference{}, blob)

	out, err := uc.Detail(authCtx("owner-1", "user"), DetailInput{ID: 42})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	if out.DocumentURL != "" {
		t.Errorf("document url = %q, want empty on presign failure", out.DocumentURL)
	}
}

func TestDetailInvalidID(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeInference{}, &fakeBlob{})

	_, err := uc.Detail(authCtx("owner-1", "user"), DetailInput{ID: 0})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("error = %v, want invalid input", err)
	}
}
