package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

func TestStats(t *testing.T) {
	db := &fakeRepoDB{stats: &entity.ApplicationStats{
		Total:          10,
		Eligible:       7,
		Ineligible:     3,
		AvgProbability: 0.61,
	}}
	uc := newTestUsecase(t, db, &fakeInference{}, &fakeBlob{})

	out, err := uc.Stats(authCtx("admin-1", "admin"))
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if out.Stats.Total != 10 || out.Stats.Eligible != 7 || out.Stats.AvgProbability != 0.61 {
		t.Errorf("stats = %+v", out.Stats)
	}
}

func TestStatsAdminOnly(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeInference{}, &fakeBlob{})

	_, err := uc.Stats(authCtx("user-1", "user"))

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func TestStatsUnauthenticated(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeInference{}, &fakeBlob{})

	_, err := uc.Stats(context.Background())

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}
