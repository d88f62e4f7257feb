package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/storage"
)

//nolint:gochecknoglobals // global for fast reuse
var documentContentTypeExt = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

type UploadDocumentInput struct {
	ApplicationID int64
	File          io.Reader
	ContentType   string
}

type UploadDocumentOutput struct {
	DocumentKey string
}

// UploadDocument attaches a supporting document to the caller's application.
// It is the sensitive action of the flow: the caller's profile must have the
// second factor enabled before any bytes are accepted.
func (s *Usecase) UploadDocument(ctx context.Context, in UploadDocumentInput) (*UploadDocumentOutput, error) {
	ctx, span := s.startSpan(ctx, "UploadDocument")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if in.ApplicationID <= 0 {
		return nil, goerror.NewInvalidFormat("invalid application id")
	}
	if in.File == nil {
		return nil, goerror.NewInvalidFormat("document file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := documentContentTypeExt[contentType]
	if !ok {
		return nil, goerror.NewInvalidFormat("unsupported document content type")
	}

	enabled, err := s.repoDB.GetSecondFactorEnabled(ctx, clm.UserID())
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Two-factor authentication required", goerror.CodeForbidden)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get second factor flag", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}
	if !enabled {
		return nil, goerror.NewBusiness("Two-factor authentication required", goerror.CodeForbidden)
	}

	app, err := s.repoDB.GetApplication(ctx, in.ApplicationID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "id", in.ApplicationID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if app.UserID != clm.UserID() {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	key := fmt.Sprintf("%s/%d/%s%s", clm.UserID(), app.ID, s.uuid.Generate(), ext)
	_, err = s.storage.Put(ctx, s.documentBucket(), key, in.File, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"user_id": clm.UserID()},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to store application document", "id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SetApplicationDocument(ctx, app.ID, key); err != nil {
		slog.ErrorContext(ctx, "failed to repo set application document", "id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UploadDocumentOutput{DocumentKey: key}, nil
}
