package entity

import (
	"math"
	"slices"
	"testing"
)

func strongForm() ApplicationForm {
	return ApplicationForm{
		AnnualSalary:            720000,
		TotalEMIAmountPerMonth:  5000,
		SavingsBalance:          100000,
		CollateralValue:         800000,
		LoanAmount:              400000,
		AvgCreditUtilizationPct: 20,
		YearsOfEmployment:       5,
		PreviousLoanStatus:      "Paid",
		NumCreditCards:          1,
		WantsLoanInsurance:      true,
	}
}

func weakForm() ApplicationForm {
	return ApplicationForm{
		AnnualSalary:            120000,
		TotalEMIAmountPerMonth:  7000,
		AvgCreditUtilizationPct: 80,
		YearsOfEmployment:       0.5,
		PreviousLoanStatus:      "default",
		PreviousBalanceFlag:     true,
		LatePaymentHistory:      true,
		NumCreditCards:          6,
		LoanAmount:              400000,
	}
}

func TestScoreApplicationClampsToOne(t *testing.T) {
	// Every positive factor fires: the raw sum exceeds 1.0.
	got := ScoreApplication(strongForm())

	if got != 1 {
		t.Fatalf("score = %v, want 1 (clamped)", got)
	}
}

func TestScoreApplicationClampsToZero(t *testing.T) {
	got := ScoreApplication(weakForm())

	if got != 0 {
		t.Fatalf("score = %v, want 0 (clamped)", got)
	}
}

func TestScoreApplicationMidRange(t *testing.T) {
	form := ApplicationForm{
		AnnualSalary:            480000, // monthly 40000: +0.12
		TotalEMIAmountPerMonth:  10000,  // ratio 0.25: +0.02
		SavingsBalance:          20000,
		AvgCreditUtilizationPct: 45, // neutral band
		YearsOfEmployment:       2,
		LoanAmount:              200000, // ratio 0.42: +0.03
		NumCreditCards:          2,
	}

	got := ScoreApplication(form)

	if math.Abs(got-0.67) > 1e-9 {
		t.Fatalf("score = %v, want 0.67", got)
	}
}

func TestScoreApplicationZeroSalary(t *testing.T) {
	// Without income, the income and EMI factors are skipped entirely.
	form := ApplicationForm{
		AnnualSalary:            0,
		TotalEMIAmountPerMonth:  50000,
		AvgCreditUtilizationPct: 45,
		YearsOfEmployment:       2,
	}

	got := ScoreApplication(form)

	if got != 0.5 {
		t.Fatalf("score = %v, want 0.5", got)
	}
}

func TestIneligibilityReasonsAllTriggers(t *testing.T) {
	form := weakForm()

	got := IneligibilityReasons(form, ScoreApplication(form))

	want := []string{
		"Monthly income is low relative to typical loan requirements.",
		"Requested loan amount is high relative to annual salary.",
		"Existing EMIs exceed 50% of monthly income.",
		"High credit utilization, reduce usage on credit cards.",
		"History of late payments detected.",
		"Outstanding previous loan balance flagged.",
		"Too many active credit cards.",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("reasons = %q, want %q", got, want)
	}
}

func TestIneligibilityReasonsGenericFallback(t *testing.T) {
	// The score is dragged below the threshold by factors that have no
	// dedicated message (short employment, a defaulted previous loan,
	// four credit cards).
	form := ApplicationForm{
		AnnualSalary:            192000, // monthly 16000, above the low-income cutoff
		TotalEMIAmountPerMonth:  7000,   // ratio 0.44, below the 50% reason cutoff
		AvgCreditUtilizationPct: 50,
		YearsOfEmployment:       0,
		PreviousLoanStatus:      "default",
		NumCreditCards:          4,
		LoanAmount:              400000,
	}

	prob := ScoreApplication(form)
	if prob >= EligibilityThreshold {
		t.Fatalf("probability = %v, want below %v", prob, EligibilityThreshold)
	}

	got := IneligibilityReasons(form, prob)

	want := []string{"Availability of credit and stability of income need improvement."}
	if !slices.Equal(got, want) {
		t.Fatalf("reasons = %q, want %q", got, want)
	}
}

func TestIneligibilityReasonsCreditCardCutoff(t *testing.T) {
	// Five cards lower the score but only six or more produce a reason.
	form := ApplicationForm{AnnualSalary: 600000, NumCreditCards: 5}

	if got := IneligibilityReasons(form, 0.8); len(got) != 0 {
		t.Errorf("reasons for 5 cards = %q, want none", got)
	}

	form.NumCreditCards = 6
	got := IneligibilityReasons(form, 0.8)
	want := []string{"Too many active credit cards."}
	if !slices.Equal(got, want) {
		t.Errorf("reasons for 6 cards = %q, want %q", got, want)
	}
}

func TestIneligibilityReasonsEmptyForEligible(t *testing.T) {
	if got := IneligibilityReasons(strongForm(), 0.9); len(got) != 0 {
		t.Fatalf("reasons = %q, want none", got)
	}
}
