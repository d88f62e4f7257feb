package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/finlens/loanadvisor/internal/eligibility/entity"
	"github.com/finlens/loanadvisor/internal/pkg/goerror"
)

func validForm() entity.ApplicationForm {
	return entity.ApplicationForm{
		Username:     "jane",
		Age:          34,
		AnnualSalary: 720000,
		LoanAmount:   400000,
	}
}

func TestSubmitUsesModelPrediction(t *testing.T) {
	db := &fakeRepoDB{}
	inf := &fakeInference{pred: &entity.Prediction{
		Eligible:    true,
		Probability: 0.83,
		Source:      entity.SourceModel,
	}}
	uc := newTestUsecase(t, db, inf, &fakeBlob{})

	out, err := uc.Submit(authCtx("user-1", "user"), SubmitInput{Form: validForm()})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !out.Eligible || out.Probability != 0.83 || out.Source != entity.SourceModel {
		t.Errorf("output = %+v", out)
	}
	if len(db.created) != 1 {
		t.Fatalf("created %d applications, want 1", len(db.created))
	}
	app := db.created[0]
	if app.UserID != "user-1" || app.Source != entity.SourceModel || !app.CreatedAt.Equal(testNow) {
		t.Errorf("persisted application = %+v", app)
	}
	if app.ID != out.ID {
		t.Errorf("output ID %d does not match persisted ID %d", out.ID, app.ID)
	}
}

func TestSubmitFallsBackToHeuristicScorer(t *testing.T) {
	db := &fakeRepoDB{}
	inf := &fakeInference{err: errors.New("connection refused")}
	uc := newTestUsecase(t, db, inf, &fakeBlob{})

	form := validForm()
	out, err := uc.Submit(authCtx("user-1", "user"), SubmitInput{Form: form})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if out.Source != entity.SourceHeuristic {
		t.Errorf("source = %v, want heuristic", out.Source)
	}
	wantProb := entity.ScoreApplication(form)
	if out.Probability != wantProb {
		t.Errorf("probability = %v, want %v", out.Probability, wantProb)
	}
	if out.Eligible != (wantProb >= entity.EligibilityThreshold) {
		t.Errorf("eligible = %v for probability %v", out.Eligible, wantProb)
	}
	if len(db.created) != 1 {
		t.Fatalf("created %d applications, want 1", len(db.created))
	}
}

func TestSubmitFallbackAttachesReasonsWhenIneligible(t *testing.T) {
	db := &fakeRepoDB{}
	inf := &fakeInference{err: errors.New("timeout")}
	uc := newTestUsecase(t, db, inf, &fakeBlob{})

	// Low income and flagged history keep the heuristic score below the
	// threshold.
	form := entity.ApplicationForm{
		Username:            "joe",
		Age:                 40,
		AnnualSalary:        120000,
		LoanAmount:          500000,
		LatePaymentHistory:  true,
		PreviousBalanceFlag: true,
	}

	out, err := uc.Submit(authCtx("user-1", "user"), SubmitInput{Form: form})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if out.Eligible {
		t.Fatalf("eligible = true, want false (probability %v)", out.Probability)
	}
	if len(out.Reasons) == 0 {
		t.Error("reasons are empty for an ineligible outcome")
	}
}

func TestSubmitUnauthenticated(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeInference{}, &fakeBlob{})

	_, err := uc.Submit(context.Background(), SubmitInput{Form: validForm()})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}

func TestSubmitInvalidForm(t *testing.T) {
	db := &fakeRepoDB{}
	inf := &fakeInference{}
	uc := newTestUsecase(t, db, inf, &fakeBlob{})

	form := validForm()
	form.Age = 300

	_, err := uc.Submit(authCtx("user-1", "user"), SubmitInput{Form: form})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("error = %v, want invalid input", err)
	}
	if inf.calls != 0 {
		t.Errorf("inference called %d times for an invalid form", inf.calls)
	}
}

func TestSubmitPersistFailure(t *testing.T) {
	db := &fakeRepoDB{createErr: errors.New("db down")}
	inf := &fakeInference{pred: &entity.Prediction{Eligible: true, Probability: 0.7, Source: entity.SourceModel}}
	uc := newTestUsecase(t, db, inf, &fakeBlob{})

	_, err := uc.Submit(authCtx("user-1", "user"), SubmitInput{Form: validForm()})

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("error = %v, want server error", err)
	}
}
