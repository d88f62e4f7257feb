package usecase

import (
	"context"
	"log/slog"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

type StatsOutput struct {
	Stats entity.ApplicationStats
}

// Stats aggregates application outcomes for the admin dashboard.
func (s *Usecase) Stats(ctx context.Context) (*StatsOutput, error) {
	ctx, span := s.startSpan(ctx, "Stats")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objLoanApplications, actList); err != nil {
		return nil, err
	}

	stats, err := s.repoDB.GetApplicationStats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application stats", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &StatsOutput{Stats: *stats}, nil
}
