package entity

import "time"

// ScoreSource identifies which engine produced the outcome.
type ScoreSource int

const (
	SourceUnknown ScoreSource = iota
	SourceModel
	SourceHeuristic
)

func (s ScoreSource) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceHeuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// ParseScoreSource maps the stored string back to a ScoreSource.
func ParseScoreSource(s string) ScoreSource {
	switch s {
	case "model":
		return SourceModel
	case "heuristic":
		return SourceHeuristic
	default:
		return SourceUnknown
	}
}

// ApplicationForm is the full manual intake payload. Every field is optional
// on the wire; the scorer treats absent values as zero.
type ApplicationForm struct {
	Username                string  `json:"username"`
	Gender                  string  `json:"gender"`
	MaritalStatus           string  `json:"marital_status"`
	Dependents              int     `json:"dependents"               validate:"gte=0"`
	Education               string  `json:"education"`
	Age                     int     `json:"age"                      validate:"gte=0,lte=120"`
	JobTitle                string  `json:"job_title"`
	AnnualSalary            float64 `json:"annual_salary"            validate:"gte=0"`
	CollateralValue         float64 `json:"collateral_value"         validate:"gte=0"`
	SavingsBalance          float64 `json:"savings_balance"          validate:"gte=0"`
	EmploymentType          string  `json:"employment_type"`
	YearsOfEmployment       float64 `json:"years_of_employment"      validate:"gte=0"`
	PreviousBalanceFlag     bool    `json:"previous_balance_flag"`
	PreviousLoanStatus      string  `json:"previous_loan_status"`
	PreviousLoanAmount      float64 `json:"previous_loan_amount"     validate:"gte=0"`
	TotalEMIAmountPerMonth  float64 `json:"total_emi_amount_per_month" validate:"gte=0"`
	LoanPurpose             string  `json:"loan_purpose"`
	LoanAmount              float64 `json:"loan_amount"              validate:"gte=0"`
	RepaymentTermMonths     int     `json:"repayment_term_months"    validate:"gte=0"`
	AdditionalIncomeSources string  `json:"additional_income_sources"`
	NumCreditCards          int     `json:"num_credit_cards"         validate:"gte=0"`
	AvgCreditUtilizationPct float64 `json:"avg_credit_utilization_pct" validate:"gte=0,lte=100"`
	LatePaymentHistory      bool    `json:"late_payment_history"`
	WantsLoanInsurance      bool    `json:"wants_loan_insurance"`
}

// Prediction is a scoring outcome, regardless of which engine produced it.
type Prediction struct {
	Eligible    bool
	Probability float64
	Reasons     []string
	Source      ScoreSource
}

// Application is a persisted loan application with its outcome.
type Application struct {
	ID          int64
	UserID      string
	Form        ApplicationForm
	Eligible    bool
	Probability float64
	Reasons     []string
	Source      ScoreSource
	DocumentKey string
	CreatedAt   time.Time
}

// ApplicationListFilterData narrows and pages the admin listing.
type ApplicationListFilterData struct {
	Eligible         *bool
	DateFrom         time.Time
	DateTo           time.Time
	IsFilterByDate   bool
	Size             int32
	Offset           int32
	OrderDirection   string
	IsFilterByUserID bool
	UserID           string
}

// ApplicationStats aggregates outcomes for the admin dashboard.
type ApplicationStats struct {
	Total          int64
	Eligible       int64
	Ineligible     int64
	AvgProbability float64
}
