package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/probatefin/advancement-engine/internal/domain"
	apperrors "github.com/probatefin/advancement-engine/pkg/errors"
	"github.com/probatefin/advancement-engine/pkg/utils"
)

// Day-count convention: a year is always exactly 365 days and a loan never
// accrues past day 1095, whatever the wall-clock span says.
const (
	DaysPerYear = 365
	MaxLoanDays = 3 * DaysPerYear
)

// ValidateSchedule rejects a fee schedule with a negative principal or
// negative percentages before any computation runs.
func ValidateSchedule(schedule domain.FeeSchedule) error {
	return validateRates(schedule.Principal, schedule.InitialFeePct, schedule.DailyFeePct, schedule.ExitFeePct)
}

func validateRates(principal, initialFeePct, dailyFeePct, exitFeePct decimal.Decimal) error {
	if principal.IsNegative() {
		return apperrors.WrapConfiguration("principal", principal.String())
	}
	if initialFeePct.IsNegative() {
		return apperrors.WrapConfiguration("initial_fee_pct", initialFeePct.String())
	}
	if dailyFeePct.IsNegative() {
		return apperrors.WrapConfiguration("daily_fee_pct", dailyFeePct.String())
	}
	if exitFeePct.IsNegative() {
		return apperrors.WrapConfiguration("exit_fee_pct", exitFeePct.String())
	}
	return nil
}

// Compute walks a loan forward day by day from its start date to the
// effective evaluation date and returns the day-keyed breakdown plus
// running totals.
//
// The effective date is the requested as-of date clamped first to the
// 1095-day ceiling and then to the settlement date; whichever clamp gives
// the earlier date wins. An as-of date before the start date means the
// loan has no age yet and everything is zero; that is not an error.
//
// Nothing is rounded here. Amounts stay at full decimal precision so that
// rounding error cannot compound across up to 1095 daily entries.
func Compute(schedule domain.FeeSchedule, ledger []domain.Transaction, settlement domain.SettlementPolicy, asOf time.Time) ([]domain.DayEntry, domain.Totals, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return nil, domain.Totals{}, err
	}

	start := utils.DateOnly(schedule.StartDate)
	asOfDate := utils.DateOnly(asOf)

	effective := effectiveDate(start, asOfDate, settlement)
	if effective.Before(start) {
		return nil, zeroTotals(effective), nil
	}

	age := utils.DaysBetween(start, effective) + 1
	window := ledgerWindow(ledger, effective)

	size := len(window) + 3
	if age > DaysPerYear {
		size += age - DaysPerYear
	}
	breakdown := make([]domain.DayEntry, 0, size)

	// Phase 1: the flat first-year charge lands on day 1 in full, however
	// few days have elapsed.
	principal := schedule.Principal
	yearly := utils.PercentOf(principal, schedule.InitialFeePct)
	running := principal.Add(yearly)

	initialRate := schedule.InitialFeePct
	breakdown = append(breakdown, domain.DayEntry{
		Day:             1,
		Date:            start,
		Kind:            domain.EntryYearlyInterest,
		PrincipalBefore: principal,
		Rate:            &initialRate,
		Amount:          yearly,
		RunningTotal:    running,
		Note:            fmt.Sprintf("Flat %s%% first-year charge", schedule.InitialFeePct.String()),
	})

	// Year-one payments reduce the running total and the tracked principal
	// but attract no further interest entries.
	yearOneEnd := start.AddDate(0, 0, DaysPerYear)
	idx := 0
	for idx < len(window) && window[idx].Date.Before(yearOneEnd) {
		tx := window[idx]
		running = running.Sub(tx.Amount)
		breakdown = append(breakdown, paymentEntry(start, tx, principal, running))
		principal = principal.Sub(tx.Amount)
		idx++
	}

	// Phase 2: daily simple interest from day 366. Interest is charged on
	// the principal as it stood before that day's payments, so a payment
	// lowers tomorrow's interest base but never today's charge.
	dailyTotal := decimal.Zero
	dailyRate := schedule.DailyFeePct
	for day := DaysPerYear + 1; day <= age; day++ {
		date := start.AddDate(0, 0, day-1)

		interest := utils.PercentOf(principal, schedule.DailyFeePct)
		running = running.Add(interest)
		dailyTotal = dailyTotal.Add(interest)
		breakdown = append(breakdown, domain.DayEntry{
			Day:             day,
			Date:            date,
			Kind:            domain.EntryDailyInterest,
			PrincipalBefore: principal,
			Rate:            &dailyRate,
			Amount:          interest,
			RunningTotal:    running,
			Note:            fmt.Sprintf("Daily simple interest at %s%%", schedule.DailyFeePct.String()),
		})

		for idx < len(window) && window[idx].Date.Equal(date) {
			tx := window[idx]
			running = running.Sub(tx.Amount)
			breakdown = append(breakdown, paymentEntry(start, tx, principal, running))
			principal = principal.Sub(tx.Amount)
			idx++
		}
	}

	// Phase 3: the exit fee is charged on the principal as it stood at the
	// start of the final day, so payments dated on the effective date are
	// added back before the percentage is applied.
	sameDay := decimal.Zero
	for _, tx := range window {
		if tx.Date.Equal(effective) {
			sameDay = sameDay.Add(tx.Amount)
		}
	}
	principalStartOfDay := principal.Add(sameDay)
	exitFee := utils.PercentOf(principalStartOfDay, schedule.ExitFeePct)
	totalDue := running.Add(exitFee)

	exitRate := schedule.ExitFeePct
	breakdown = append(breakdown, domain.DayEntry{
		Day:             age,
		Date:            effective,
		Kind:            domain.EntryExitFee,
		PrincipalBefore: principalStartOfDay,
		Rate:            &exitRate,
		Amount:          exitFee,
		RunningTotal:    totalDue,
		Note:            fmt.Sprintf("Exit fee at %s%% of start-of-day principal", schedule.ExitFeePct.String()),
	})

	// Phase 4: informational marker once the estate has paid out.
	if settlement.IsSettled && settlement.SettledDate != nil {
		settled := utils.DateOnly(*settlement.SettledDate)
		breakdown = append(breakdown, domain.DayEntry{
			Day:             utils.DaysBetween(start, settled) + 1,
			Date:            settled,
			Kind:            domain.EntrySettled,
			PrincipalBefore: decimal.Zero,
			Amount:          decimal.Zero,
			RunningTotal:    totalDue,
			Note:            "Loan settled",
		})
	}

	totals := domain.Totals{
		InitialAmount:      schedule.Principal,
		YearlyInterest:     yearly,
		DailyInterestTotal: dailyTotal,
		ExitFee:            exitFee,
		TotalDue:           totalDue,
		ClosingPrincipal:   principal,
		LoanAgeDays:        age,
		WithinFirstYear:    age <= DaysPerYear,
		EffectiveDate:      effective,
	}

	return breakdown, totals, nil
}

// effectiveDate applies the 1095-day ceiling and then the settlement clamp.
func effectiveDate(start, asOf time.Time, settlement domain.SettlementPolicy) time.Time {
	effective := utils.MinDate(asOf, start.AddDate(0, 0, MaxLoanDays-1))
	if settlement.IsSettled && settlement.SettledDate != nil {
		effective = utils.MinDate(effective, utils.DateOnly(*settlement.SettledDate))
	}
	return effective
}

// ledgerWindow returns the transactions dated on or before the effective
// date, with dates normalised and sorted ascending. The sort is stable so
// same-day transactions keep the order the caller supplied.
func ledgerWindow(ledger []domain.Transaction, effective time.Time) []domain.Transaction {
	window := make([]domain.Transaction, 0, len(ledger))
	for _, tx := range ledger {
		if date := utils.DateOnly(tx.Date); !date.After(effective) {
			tx.Date = date
			window = append(window, tx)
		}
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Date.Before(window[j].Date)
	})
	return window
}

func paymentEntry(start time.Time, tx domain.Transaction, principalBefore, runningAfter decimal.Decimal) domain.DayEntry {
	return domain.DayEntry{
		Day:             utils.DaysBetween(start, tx.Date) + 1,
		Date:            tx.Date,
		Kind:            domain.EntryPayment,
		PrincipalBefore: principalBefore,
		Amount:          tx.Amount,
		RunningTotal:    runningAfter,
		Note:            fmt.Sprintf("Payment of %s", tx.Amount.String()),
	}
}

func zeroTotals(effective time.Time) domain.Totals {
	return domain.Totals{
		InitialAmount:      decimal.Zero,
		YearlyInterest:     decimal.Zero,
		DailyInterestTotal: decimal.Zero,
		ExitFee:            decimal.Zero,
		TotalDue:           decimal.Zero,
		ClosingPrincipal:   decimal.Zero,
		WithinFirstYear:    true,
		EffectiveDate:      effective,
	}
}
