package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

type DetailInput struct {
	ID int64 `validate:"required,gt=0"`
}

type DetailOutput struct {
	Application entity.Application
	DocumentURL string
}

// Detail returns an application to its owner, or to an admin via policy.
func (s *Usecase) Detail(ctx context.Context, in DetailInput) (*DetailOutput, error) {
	ctx, span := s.startSpan(ctx, "Detail")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	app, err := s.repoDB.GetApplication(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if app.UserID != clm.UserID() {
		if _, err := s.authenticatedAndAuthorized(ctx, objLoanApplications, actRead); err != nil {
			return nil, err
		}
	}

	out := &DetailOutput{Application: *app}

	if app.DocumentKey != "" {
		url, err := s.storage.PresignGet(ctx, s.documentBucket(), app.DocumentKey, s.documentURLTTL())
		if err != nil {
			slog.WarnContext(ctx, "failed to presign document url", "id", in.ID, "error", err)
		} else {
			out.DocumentURL = url
		}
	}

	return out, nil
}
