package entity

import "strings"

// scoreEpsilon guards divisions against zero denominators while keeping the
// historical ratios intact.
const scoreEpsilon = 1e-6

// EligibilityThreshold is the probability at or above which an application passes.
const EligibilityThreshold = 0.5

// ScoreApplication computes the deterministic fallback probability used when
// the inference endpoint is unavailable. Factors and weights match the
// original mock scoring backend so outcomes stay stable across the switch.
func ScoreApplication(form ApplicationForm) float64 {
	salary := max(form.AnnualSalary, 0)
	emi := max(form.TotalEMIAmountPerMonth, 0)
	monthlyIncome := 0.0
	if salary > 0 {
		monthlyIncome = salary / 12
	}
	utilization := min(max(form.AvgCreditUtilizationPct, 0), 100)
	savings := max(form.SavingsBalance, 0)
	collateral := max(form.CollateralValue, 0)
	yearsWorked := max(form.YearsOfEmployment, 0)
	prevStatus := strings.ToLower(form.PreviousLoanStatus)
	loanAmount := max(form.LoanAmount, 0)

	score := 0.5

	// Income contribution.
	if monthlyIncome > 0 {
		switch {
		case monthlyIncome > 50000:
			score += 0.2
		case monthlyIncome > 30000:
			score += 0.12
		case monthlyIncome > 15000:
			score += 0.06
		default:
			score -= 0.05
		}
	}

	// EMI burden.
	if monthlyIncome > 0 {
		emiRatio := emi / (monthlyIncome + scoreEpsilon)
		switch {
		case emiRatio < 0.2:
			score += 0.1
		case emiRatio < 0.4:
			score += 0.02
		case emiRatio < 0.6:
			score -= 0.04
		default:
			score -= 0.12
		}
	}

	// Savings and collateral.
	if savings > 50000 {
		score += 0.06
	}
	if collateral > 0 {
		score += min(0.08, collateral/(loanAmount+scoreEpsilon)*0.05)
	}

	// Credit utilization.
	switch {
	case utilization < 30:
		score += 0.06
	case utilization < 60:
		// neutral
	default:
		score -= 0.07
	}

	// Employment stability.
	if yearsWorked >= 3 {
		score += 0.05
	} else if yearsWorked < 1 {
		score -= 0.03
	}

	// Previous loan history.
	switch prevStatus {
	case "default", "charged off", "rejected":
		score -= 0.18
	case "paid", "closed", "settled":
		score += 0.04
	}
	if form.PreviousBalanceFlag {
		score -= 0.05
	}

	if form.LatePaymentHistory {
		score -= 0.1
	}

	if form.NumCreditCards >= 4 {
		score -= 0.03
	}

	// Loan amount relative to salary.
	if salary > 0 {
		ratio := loanAmount / (salary + scoreEpsilon)
		if ratio > 2.5 {
			score -= 0.08
		} else if ratio < 0.5 {
			score += 0.03
		}
	}

	if form.WantsLoanInsurance {
		score += 0.02
	}

	return min(max(score, 0), 1)
}

// IneligibilityReasons derives the applicant-facing explanations for a low
// probability. The messages are stable strings the frontend renders verbatim.
func IneligibilityReasons(form ApplicationForm, prob float64) []string {
	var reasons []string

	salary := form.AnnualSalary
	monthlyIncome := 0.0
	if salary > 0 {
		monthlyIncome = salary / 12
	}

	if monthlyIncome < 15000 {
		reasons = append(reasons, "Monthly income is low relative to typical loan requirements.")
	}
	if salary > 0 && form.LoanAmount/salary > 2.5 {
		reasons = append(reasons, "Requested loan amount is high relative to annual salary.")
	}
	if monthlyIncome > 0 && form.TotalEMIAmountPerMonth/(monthlyIncome+scoreEpsilon) > 0.5 {
		reasons = append(reasons, "Existing EMIs exceed 50% of monthly income.")
	}
	if form.AvgCreditUtilizationPct > 60 {
		reasons = append(reasons, "High credit utilization, reduce usage on credit cards.")
	}
	if form.LatePaymentHistory {
		reasons = append(reasons, "History of late payments detected.")
	}
	if form.PreviousBalanceFlag {
		reasons = append(reasons, "Outstanding previous loan balance flagged.")
	}
	if form.NumCreditCards >= 6 {
		reasons = append(reasons, "Too many active credit cards.")
	}

	if len(reasons) == 0 && prob < EligibilityThreshold {
		reasons = append(reasons, "Availability of credit and stability of income need improvement.")
	}

	return reasons
}
