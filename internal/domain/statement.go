package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the closed set of breakdown entry variants.
type EntryKind string

const (
	EntryYearlyInterest EntryKind = "yearly_interest"
	EntryPayment        EntryKind = "payment"
	EntryDailyInterest  EntryKind = "daily_interest"
	EntryExitFee        EntryKind = "exit_fee"
	EntrySettled        EntryKind = "settled"
)

// DayEntry is one line of a statement breakdown. Day 1 is the disbursement
// date itself. PrincipalBefore is the tracked principal before the entry
// took effect; Rate is set only for percentage-based entries.
type DayEntry struct {
	Day             int              `json:"day"`
	Date            time.Time        `json:"date"`
	Kind            EntryKind        `json:"kind"`
	PrincipalBefore decimal.Decimal  `json:"principal_before"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	RunningTotal    decimal.Decimal  `json:"running_total"`
	Note            string           `json:"note"`
}

// Totals carries the running aggregates produced alongside a breakdown.
// None of the amounts are rounded; rounding is a presentation concern.
type Totals struct {
	InitialAmount      decimal.Decimal `json:"initial_amount"`
	YearlyInterest     decimal.Decimal `json:"yearly_interest"`
	DailyInterestTotal decimal.Decimal `json:"daily_interest_total"`
	ExitFee            decimal.Decimal `json:"exit_fee"`
	TotalDue           decimal.Decimal `json:"total_due"`
	ClosingPrincipal   decimal.Decimal `json:"closing_principal"`
	LoanAgeDays        int             `json:"loan_age_days"`
	WithinFirstYear    bool            `json:"within_first_year"`
	EffectiveDate      time.Time       `json:"effective_date"`
}

// StatementSummary is the condensed view reporting layers lead with.
type StatementSummary struct {
	LoanAgeDays        int             `json:"loan_age_days"`
	WithinFirstYear    bool            `json:"within_first_year"`
	BasePrincipal      decimal.Decimal `json:"base_principal"`
	YearlyInterest     decimal.Decimal `json:"yearly_interest"`
	DailyInterestTotal decimal.Decimal `json:"daily_interest_total"`
	ExitFee            decimal.Decimal `json:"exit_fee"`
	TotalDue           decimal.Decimal `json:"total_due"`
}

// Statement is the point-in-time position of a loan. It is rebuilt from
// scratch on every request; identical inputs yield an identical statement.
type Statement struct {
	Date               time.Time        `json:"date"`
	InitialAmount      decimal.Decimal  `json:"initial_amount"`
	YearlyInterest     decimal.Decimal  `json:"yearly_interest"`
	DailyInterestTotal decimal.Decimal  `json:"daily_interest_total"`
	ExitFee            decimal.Decimal  `json:"exit_fee"`
	TotalDue           decimal.Decimal  `json:"total_due"`
	Breakdown          []DayEntry       `json:"breakdown"`
	Transactions       []Transaction    `json:"transactions"`
	Summary            StatementSummary `json:"summary"`
	IsSettled          bool             `json:"is_settled"`
	SettledDate        *time.Time       `json:"settled_date,omitempty"`
}

type StatementResponse struct {
	LoanID    string     `json:"loan_id"`
	Statement *Statement `json:"statement"`
}
