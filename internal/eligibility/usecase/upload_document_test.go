package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

func uploadInput() UploadDocumentInput {
	return UploadDocumentInput{
		ApplicationID: 42,
		File:          strings.NewReader("%PDF-1.7"),
		ContentType:   "application/pdf",
	}
}

func TestUploadDocumentSuccess(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication(), secondFactor: true}
	blob := &fakeBlob{}
	uc := newTestUsecase(t, db, &fakeInference{}, blob)

	out, err := uc.UploadDocument(authCtx("owner-1", "user"), uploadInput())
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}

	wantKey := "owner-1/42/doc-uuid.pdf"
	if out.DocumentKey != wantKey {
		t.Errorf("key = %q, want %q", out.DocumentKey, wantKey)
	}
	if len(blob.puts) != 1 {
		t.Fatalf("stored %d objects, want 1", len(blob.puts))
	}
	put := blob.puts[0]
	if put.bucket != "loan-documents" || put.key != wantKey || put.contentType != "application/pdf" {
		t.Errorf("put = %+v", put)
	}
	if put.metadata["user_id"] != "owner-1" {
		t.Errorf("metadata = %v", put.metadata)
	}
	if db.docKeys[42] != wantKey {
		t.Errorf("persisted key = %q", db.docKeys[42])
	}
}

func TestUploadDocumentRequiresSecondFactor(t *testing.T) {
	cases := []struct {
		name string
		db   *fakeRepoDB
	}{
		{"flag disabled", &fakeRepoDB{app: storedApplication(), secondFactor: false}},
		{"no profile", &fakeRepoDB{app: storedApplication(), secondFactorErr: goerror.ErrNotFound}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blob := &fakeBlob{}
			uc := newTestUsecase(t, tc.db, &fakeInference{}, blob)

			_, err := uc.UploadDocument(authCtx("owner-1", "user"), uploadInput())

			var gerr *goerror.Error
			if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
				t.Fatalf("error = %v, want forbidden", err)
			}
			if gerr.Msg() != "Two-factor authentication required" {
				t.Errorf("message = %q", gerr.Msg())
			}
			if len(blob.puts) != 0 {
				t.Error("object stored despite missing second factor")
			}
		})
	}
}

func TestUploadDocumentOwnershipEnforced(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication(), secondFactor: true}
	blob := &fakeBlob{}
	uc := newTestUsecase(t, db, &fakeInference{}, blob)

	_, err := uc.UploadDocument(authCtx("other-user", "user"), uploadInput())

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if len(blob.puts) != 0 {
		t.Error("object stored for a non-owner")
	}
}

func TestUploadDocumentUnsupportedContentType(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication(), secondFactor: true}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	in := uploadInput()
	in.ContentType = "application/zip"

	_, err := uc.UploadDocument(authCtx("owner-1", "user"), in)

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidFormat {
		t.Fatalf("error = %v, want invalid format", err)
	}
}

func TestUploadDocumentApplicationNotFound(t *testing.T) {
	db := &fakeRepoDB{getErr: goerror.ErrNotFound, secondFactor: true}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	_, err := uc.UploadDocument(authCtx("owner-1", "user"), uploadInput())

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestUploadDocumentStorageFailure(t *testing.T) {
	db := &fakeRepoDB{app: storedApplication(), secondFactor: true}
	blob := &fakeBlob{putErr: errors.New("bucket unavailable")}
	uc := newTestUsecase(t, db, &fakeInference{}, blob)

	_, err := uc.UploadDocument(authCtx("owner-1", "user"), uploadInput())

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("error = %v, want server error", err)
	}
	if len(db.docKeys) != 0 {
		t.Error("document key persisted after storage failure")
	}
}
