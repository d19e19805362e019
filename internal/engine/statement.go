package engine

import (
	"time"

	"github.com/probatefin/advancement-engine/internal/domain"
)

// Build wraps calculator output into a reportable statement. Pure field
// assembly, no computation, so building twice from the same inputs yields
// an identical statement.
func Build(breakdown []domain.DayEntry, totals domain.Totals, transactions []domain.Transaction, settlement domain.SettlementPolicy) domain.Statement {
	return domain.Statement{
		Date:               totals.EffectiveDate,
		InitialAmount:      totals.InitialAmount,
		YearlyInterest:     totals.YearlyInterest,
		DailyInterestTotal: totals.DailyInterestTotal,
		ExitFee:            totals.ExitFee,
		TotalDue:           totals.TotalDue,
		Breakdown:          breakdown,
		Transactions:       transactions,
		Summary: domain.StatementSummary{
			LoanAgeDays:        totals.LoanAgeDays,
			WithinFirstYear:    totals.WithinFirstYear,
			BasePrincipal:      totals.ClosingPrincipal,
			YearlyInterest:     totals.YearlyInterest,
			DailyInterestTotal: totals.DailyInterestTotal,
			ExitFee:            totals.ExitFee,
			TotalDue:           totals.TotalDue,
		},
		IsSettled:   settlement.IsSettled,
		SettledDate: settlement.SettledDate,
	}
}

// GenerateStatement runs the accrual calculator for the given as-of date
// and assembles the result, echoing the transactions that fell inside the
// evaluated window.
func GenerateStatement(schedule domain.FeeSchedule, ledger []domain.Transaction, settlement domain.SettlementPolicy, asOf time.Time) (domain.Statement, error) {
	breakdown, totals, err := Compute(schedule, ledger, settlement, asOf)
	if err != nil {
		return domain.Statement{}, err
	}

	var echo []domain.Transaction
	if totals.LoanAgeDays > 0 {
		echo = ledgerWindow(ledger, totals.EffectiveDate)
	}

	return Build(breakdown, totals, echo, settlement), nil
}
