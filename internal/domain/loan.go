package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "active"
	LoanStatusSettled = "settled"
)

// Loan is the persisted record of a funded probate advancement. The fee
// percentages are snapshotted from configuration when the loan is created
// and never re-read afterwards.
type Loan struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        string          `json:"loan_id" db:"loan_id"`
	Principal     decimal.Decimal `json:"principal" db:"principal"`
	InitialFeePct decimal.Decimal `json:"initial_fee_pct" db:"initial_fee_pct"`
	DailyFeePct   decimal.Decimal `json:"daily_fee_pct" db:"daily_fee_pct"`
	ExitFeePct    decimal.Decimal `json:"exit_fee_pct" db:"exit_fee_pct"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	Status        string          `json:"status" db:"status"`
	IsSettled     bool            `json:"is_settled" db:"is_settled"`
	SettledDate   *time.Time      `json:"settled_date,omitempty" db:"settled_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// FeeSchedule is the immutable pricing snapshot the accrual engine works
// from: the advanced principal, the three fee percentages and the
// disbursement date that day-counting starts at.
type FeeSchedule struct {
	Principal     decimal.Decimal `json:"principal"`
	InitialFeePct decimal.Decimal `json:"initial_fee_pct"`
	DailyFeePct   decimal.Decimal `json:"daily_fee_pct"`
	ExitFeePct    decimal.Decimal `json:"exit_fee_pct"`
	StartDate     time.Time       `json:"start_date"`
}

// SettlementPolicy caps accrual once the estate has paid out.
type SettlementPolicy struct {
	IsSettled   bool       `json:"is_settled"`
	SettledDate *time.Time `json:"settled_date,omitempty"`
}

// FeeSchedule extracts the engine-facing pricing snapshot from a loan record.
func (l *Loan) FeeSchedule() FeeSchedule {
	return FeeSchedule{
		Principal:     l.Principal,
		InitialFeePct: l.InitialFeePct,
		DailyFeePct:   l.DailyFeePct,
		ExitFeePct:    l.ExitFeePct,
		StartDate:     l.StartDate,
	}
}

// Settlement extracts the settlement state from a loan record.
func (l *Loan) Settlement() SettlementPolicy {
	return SettlementPolicy{
		IsSettled:   l.IsSettled,
		SettledDate: l.SettledDate,
	}
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID    string          `json:"loan_id" validate:"required"`
	Principal decimal.Decimal `json:"principal" validate:"required"`
	StartDate string          `json:"start_date" validate:"required,datetime=2006-01-02"`

	// Optional per-loan overrides; configured defaults apply when omitted.
	InitialFeePct *decimal.Decimal `json:"initial_fee_pct,omitempty"`
	DailyFeePct   *decimal.Decimal `json:"daily_fee_pct,omitempty"`
	ExitFeePct    *decimal.Decimal `json:"exit_fee_pct,omitempty"`
}

type RecordTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description"`
}

type SettleLoanRequest struct {
	SettledDate string `json:"settled_date" validate:"required,datetime=2006-01-02"`
}

type OutstandingResponse struct {
	LoanID   string          `json:"loan_id"`
	Date     time.Time       `json:"date"`
	TotalDue decimal.Decimal `json:"total_due"`
}
