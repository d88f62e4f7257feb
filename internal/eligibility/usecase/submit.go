package usecase

import (
	"context"
	"log/slog"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

type SubmitInput struct {
	Form entity.ApplicationForm
}

type SubmitOutput struct {
	ID          int64
	Eligible    bool
	Probability float64
	Reasons     []string
	Source      entity.ScoreSource
}

// Submit scores a loan application and persists it with its outcome. The
// external model is authoritative; when it is unreachable the deterministic
// fallback scorer produces the outcome so intake never hard-fails on a
// dependency outage.
func (s *Usecase) Submit(ctx context.Context, in SubmitInput) (out *SubmitOutput, err error) {
	ctx, span := s.startSpan(ctx, "Submit")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in.Form); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pred, infErr := s.repoInference.Predict(ctx, in.Form)
	if infErr != nil {
		slog.WarnContext(ctx, "inference endpoint unavailable, using fallback scorer", "error", infErr)

		prob := entity.ScoreApplication(in.Form)
		eligible := prob >= entity.EligibilityThreshold
		var reasons []string
		if !eligible {
			reasons = entity.IneligibilityReasons(in.Form, prob)
		}
		pred = &entity.Prediction{
			Eligible:    eligible,
			Probability: prob,
			Reasons:     reasons,
			Source:      entity.SourceHeuristic,
		}
	}

	app := entity.Application{
		ID:          s.uid.Generate(),
		UserID:      clm.UserID(),
		Form:        in.Form,
		Eligible:    pred.Eligible,
		Probability: pred.Probability,
		Reasons:     pred.Reasons,
		Source:      pred.Source,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repoDB.CreateApplication(ctx, app); err != nil {
		slog.ErrorContext(ctx, "failed to repo create application", "user_id", clm.UserID(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SubmitOutput{
		ID:          app.ID,
		Eligible:    pred.Eligible,
		Probability: pred.Probability,
		Reasons:     pred.Reasons,
		Source:      pred.Source,
	}, nil
}
