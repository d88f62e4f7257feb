package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

type ListInput struct {
	Eligible  *bool
	UserID    string // value already trimmed
	DateFrom  time.Time
	DateTo    time.Time
	Size      int32
	Page      int32
	SortOrder string // value is: `asc` or `desc`; already trimmed and lowered
}

type ListOutput struct {
	Page         int32
	Size         int32
	Total        int64
	Applications []entity.Application
}

// List returns the admin application listing, newest first by default.
func (s *Usecase) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, objLoanApplications, actList); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}
	if in.SortOrder != "asc" {
		in.SortOrder = "desc"
	}

	filterData := entity.ApplicationListFilterData{
		Eligible:       in.Eligible,
		DateFrom:       in.DateFrom,
		DateTo:         in.DateTo,
		Size:           in.Size,
		Offset:         (max(in.Page, 1) - 1) * in.Size,
		OrderDirection: in.SortOrder,
	}
	if !in.DateFrom.IsZero() && !in.DateTo.IsZero() {
		filterData.IsFilterByDate = true
	}
	if uid := strings.TrimSpace(in.UserID); uid != "" {
		filterData.IsFilterByUserID = true
		filterData.UserID = uid
	}

	apps, count, err := s.repoDB.GetApplicationList(ctx, filterData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list applications", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListOutput{
		Page:         max(in.Page, 1),
		Size:         in.Size,
		Total:        count,
		Applications: apps,
	}, nil
}
