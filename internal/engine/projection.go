package engine

import (
	"github.com/shopspring/decimal"

	"github.com/probatefin/advancement-engine/internal/domain"
	apperrors "github.com/probatefin/advancement-engine/pkg/errors"
	"github.com/probatefin/advancement-engine/pkg/utils"
)

const (
	MonthsPerYear = 12

	// SECCI disclosure terms: the shortest and longest scenarios shown on
	// pre-contract documents.
	SecciMinimumTermMonths = 12
	SecciMaximumTermMonths = 36
)

// Project answers "what would this advancement cost if it ran for exactly
// months with no repayments". It has no ledger and no day walk; months
// beyond the first year convert to interest-bearing days at 365/12 with
// integer truncation. Output is rounded to 2 decimal places since these
// figures go straight onto disclosure documents.
func Project(principal, initialFeePct, dailyFeePct, exitFeePct decimal.Decimal, months int) (domain.CostBreakdown, error) {
	if months <= 0 {
		return domain.CostBreakdown{}, apperrors.WrapInvalidTerm(months)
	}
	if err := validateRates(principal, initialFeePct, dailyFeePct, exitFeePct); err != nil {
		return domain.CostBreakdown{}, err
	}

	firstYearCharge := utils.PercentOf(principal, initialFeePct)

	days := 0
	if months > MonthsPerYear {
		days = (months - MonthsPerYear) * DaysPerYear / MonthsPerYear
	}
	dailyInterestTotal := utils.PercentOf(principal, dailyFeePct).Mul(decimal.NewFromInt(int64(days)))

	exitFee := utils.PercentOf(principal, exitFeePct)
	totalCost := firstYearCharge.Add(dailyInterestTotal).Add(exitFee)

	return domain.CostBreakdown{
		Principal:          principal.Round(2),
		TermMonths:         months,
		FirstYearCharge:    firstYearCharge.Round(2),
		DaysAfterFirstYear: days,
		DailyInterestTotal: dailyInterestTotal.Round(2),
		ExitFee:            exitFee.Round(2),
		TotalCost:          totalCost.Round(2),
		TotalPayable:       principal.Add(totalCost).Round(2),
	}, nil
}

// ProjectSecci produces the minimum (12-month) and maximum (36-month)
// total-cost scenarios for pre-contract disclosure.
func ProjectSecci(principal, initialFeePct, dailyFeePct, exitFeePct decimal.Decimal) (domain.SecciScenarios, error) {
	minimum, err := Project(principal, initialFeePct, dailyFeePct, exitFeePct, SecciMinimumTermMonths)
	if err != nil {
		return domain.SecciScenarios{}, err
	}

	maximum, err := Project(principal, initialFeePct, dailyFeePct, exitFeePct, SecciMaximumTermMonths)
	if err != nil {
		return domain.SecciScenarios{}, err
	}

	return domain.SecciScenarios{Minimum: minimum, Maximum: maximum}, nil
}
