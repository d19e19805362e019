package domain

import "github.com/shopspring/decimal"

// CostBreakdown is a pre-drawdown disclosure projection: the total cost of
// an advancement that runs for exactly TermMonths with no repayments.
// Unlike statement totals these figures are rounded to 2 decimal places,
// since they go straight onto disclosure documents.
type CostBreakdown struct {
	Principal          decimal.Decimal `json:"principal"`
	TermMonths         int             `json:"term_months"`
	FirstYearCharge    decimal.Decimal `json:"first_year_charge"`
	DaysAfterFirstYear int             `json:"days_after_first_year"`
	DailyInterestTotal decimal.Decimal `json:"daily_interest_total"`
	ExitFee            decimal.Decimal `json:"exit_fee"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
}

// SecciScenarios pairs the shortest-term and longest-term projections for
// the standardised pre-contract disclosure.
type SecciScenarios struct {
	Minimum CostBreakdown `json:"minimum"`
	Maximum CostBreakdown `json:"maximum"`
}

type ProjectionRequest struct {
	Principal decimal.Decimal `json:"principal" validate:"required"`
	Months    int             `json:"months" validate:"required"`

	// Optional overrides; configured defaults apply when omitted.
	InitialFeePct *decimal.Decimal `json:"initial_fee_pct,omitempty"`
	DailyFeePct   *decimal.Decimal `json:"daily_fee_pct,omitempty"`
	ExitFeePct    *decimal.Decimal `json:"exit_fee_pct,omitempty"`
}

type SecciRequest struct {
	Principal decimal.Decimal `json:"principal" validate:"required"`

	InitialFeePct *decimal.Decimal `json:"initial_fee_pct,omitempty"`
	DailyFeePct   *decimal.Decimal `json:"daily_fee_pct,omitempty"`
	ExitFeePct    *decimal.Decimal `json:"exit_fee_pct,omitempty"`
}
