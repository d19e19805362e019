package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probatefin/advancement-engine/internal/domain"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testSchedule() domain.FeeSchedule {
	return domain.FeeSchedule{
		Principal:     decimal.NewFromInt(10000),
		InitialFeePct: decimal.RequireFromString("15"),
		DailyFeePct:   decimal.RequireFromString("0.07"),
		ExitFeePct:    decimal.RequireFromString("1.5"),
		StartDate:     testStart,
	}
}

// dayDate returns the calendar date of the given loan day (day 1 is the
// start date itself).
func dayDate(day int) time.Time {
	return testStart.AddDate(0, 0, day-1)
}

func payment(day int, amount int64) domain.Transaction {
	return domain.Transaction{
		Amount:      decimal.NewFromInt(amount),
		Date:        dayDate(day),
		Description: "repayment",
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name           string
		ledger         []domain.Transaction
		settlement     domain.SettlementPolicy
		asOf           time.Time
		expectedError  bool
		errorContains  string
		validateResult func(*testing.T, []domain.DayEntry, domain.Totals)
	}{
		{
			name: "Success - Within first year only the flat fee and exit fee accrue",
			asOf: dayDate(200),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				assert.True(t, totals.YearlyInterest.Equal(decimal.NewFromInt(1500)))
				assert.True(t, totals.DailyInterestTotal.IsZero())
				assert.True(t, totals.ExitFee.Equal(decimal.NewFromInt(150)))
				assert.True(t, totals.TotalDue.Equal(decimal.NewFromInt(11650)))
				assert.Equal(t, 200, totals.LoanAgeDays)
				assert.True(t, totals.WithinFirstYear)

				// Flat fee entry on day 1, exit fee entry on the final day
				require.Len(t, breakdown, 2)
				assert.Equal(t, domain.EntryYearlyInterest, breakdown[0].Kind)
				assert.Equal(t, 1, breakdown[0].Day)
				assert.Equal(t, domain.EntryExitFee, breakdown[1].Kind)
				assert.Equal(t, 200, breakdown[1].Day)
			},
		},
		{
			name: "Success - Exactly day 365 still counts as first year",
			asOf: dayDate(365),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				assert.True(t, totals.DailyInterestTotal.IsZero())
				assert.True(t, totals.WithinFirstYear)
			},
		},
		{
			name: "Success - Daily simple interest starts on day 366",
			asOf: dayDate(370),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				// Days 366-370: five days at 10000 * 0.07% = 7.00
				assert.True(t, totals.DailyInterestTotal.Equal(decimal.NewFromInt(35)),
					"expected 35, got %s", totals.DailyInterestTotal.String())
				assert.False(t, totals.WithinFirstYear)

				assert.Equal(t, domain.EntryDailyInterest, breakdown[1].Kind)
				assert.Equal(t, 366, breakdown[1].Day)
				assert.True(t, breakdown[1].Amount.Equal(decimal.NewFromInt(7)))
			},
		},
		{
			name:   "Success - Year-one payment lowers the interest base after day 365",
			ledger: []domain.Transaction{payment(100, 5000)},
			asOf:   dayDate(370),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				// Five days of interest on the reduced 5000 principal = 3.50 each
				assert.True(t, totals.DailyInterestTotal.Equal(decimal.RequireFromString("17.5")),
					"expected 17.5, got %s", totals.DailyInterestTotal.String())
				assert.True(t, totals.ClosingPrincipal.Equal(decimal.NewFromInt(5000)))

				assert.Equal(t, domain.EntryPayment, breakdown[1].Kind)
				assert.Equal(t, 100, breakdown[1].Day)
				assert.True(t, breakdown[1].PrincipalBefore.Equal(decimal.NewFromInt(10000)))
			},
		},
		{
			name:   "Success - Payment reduces next day's interest but not its own day's",
			ledger: []domain.Transaction{payment(400, 2000)},
			asOf:   dayDate(401),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				var day400, day401 *domain.DayEntry
				for i := range breakdown {
					entry := &breakdown[i]
					if entry.Kind != domain.EntryDailyInterest {
						continue
					}
					switch entry.Day {
					case 400:
						day400 = entry
					case 401:
						day401 = entry
					}
				}

				require.NotNil(t, day400)
				require.NotNil(t, day401)
				// Day 400 is charged on the full 10000 before the payment lands
				assert.True(t, day400.Amount.Equal(decimal.NewFromInt(7)),
					"expected 7, got %s", day400.Amount.String())
				// Day 401 is charged on the reduced 8000
				assert.True(t, day401.Amount.Equal(decimal.RequireFromString("5.6")),
					"expected 5.6, got %s", day401.Amount.String())
			},
		},
		{
			name:   "Success - Exit fee adds back payments dated on the effective date",
			ledger: []domain.Transaction{payment(400, 2000)},
			asOf:   dayDate(400),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				// Principal is 8000 after the payment but the fee is charged
				// on the 10000 the day started with.
				assert.True(t, totals.ExitFee.Equal(decimal.NewFromInt(150)),
					"expected 150, got %s", totals.ExitFee.String())
				assert.True(t, totals.ClosingPrincipal.Equal(decimal.NewFromInt(8000)))
			},
		},
		{
			name:   "Success - Multiple same-day payments all add back into the exit fee base",
			ledger: []domain.Transaction{payment(400, 1500), payment(400, 500)},
			asOf:   dayDate(400),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				assert.True(t, totals.ExitFee.Equal(decimal.NewFromInt(150)),
					"expected 150, got %s", totals.ExitFee.String())

				// Each payment gets its own entry in the order supplied
				var payments []domain.DayEntry
				for _, entry := range breakdown {
					if entry.Kind == domain.EntryPayment {
						payments = append(payments, entry)
					}
				}
				require.Len(t, payments, 2)
				assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(1500)))
				assert.True(t, payments[1].Amount.Equal(decimal.NewFromInt(500)))
			},
		},
		{
			name: "Success - As-of before start date yields zero everything",
			asOf: testStart.AddDate(0, 0, -10),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				assert.Empty(t, breakdown)
				assert.True(t, totals.TotalDue.IsZero())
				assert.True(t, totals.YearlyInterest.IsZero())
				assert.True(t, totals.ExitFee.IsZero())
				assert.Equal(t, 0, totals.LoanAgeDays)
			},
		},
		{
			name: "Success - Settled loan gets a terminal marker entry",
			settlement: domain.SettlementPolicy{
				IsSettled:   true,
				SettledDate: timePtr(dayDate(500)),
			},
			asOf: dayDate(500),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				last := breakdown[len(breakdown)-1]
				assert.Equal(t, domain.EntrySettled, last.Kind)
				assert.Equal(t, 500, last.Day)
				assert.True(t, last.Amount.IsZero())
				assert.True(t, last.PrincipalBefore.IsZero())
			},
		},
		{
			name: "Failure - Negative principal is rejected before computation",
			asOf: dayDate(10),
			validateResult: func(t *testing.T, breakdown []domain.DayEntry, totals domain.Totals) {
				assert.Nil(t, breakdown)
			},
			expectedError: true,
			errorContains: "principal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			schedule := testSchedule()
			if tt.expectedError {
				schedule.Principal = decimal.NewFromInt(-10000)
			}

			// Act
			breakdown, totals, err := Compute(schedule, tt.ledger, tt.settlement, tt.asOf)

			// Assert
			if tt.expectedError {
				assert.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}

			tt.validateResult(t, breakdown, totals)
		})
	}
}

func TestComputeSettlementClamp(t *testing.T) {
	schedule := testSchedule()
	ledger := []domain.Transaction{payment(380, 1000)}
	settlement := domain.SettlementPolicy{
		IsSettled:   true,
		SettledDate: timePtr(dayDate(500)),
	}

	atSettlement, err := GenerateStatement(schedule, ledger, settlement, dayDate(500))
	require.NoError(t, err)

	afterSettlement, err := GenerateStatement(schedule, ledger, settlement, dayDate(500).AddDate(0, 0, 30))
	require.NoError(t, err)

	// Accrual must freeze at the settled date
	assert.Equal(t, atSettlement, afterSettlement)
	assert.Equal(t, 500, atSettlement.Summary.LoanAgeDays)
}

func TestComputeThreeYearCeiling(t *testing.T) {
	schedule := testSchedule()

	atCeiling, err := GenerateStatement(schedule, nil, domain.SettlementPolicy{}, dayDate(1095))
	require.NoError(t, err)

	wellPast, err := GenerateStatement(schedule, nil, domain.SettlementPolicy{}, dayDate(2000))
	require.NoError(t, err)

	assert.Equal(t, atCeiling, wellPast)
	assert.Equal(t, 1095, atCeiling.Summary.LoanAgeDays)

	// 730 interest-bearing days at 7.00 each
	assert.True(t, atCeiling.DailyInterestTotal.Equal(decimal.NewFromInt(5110)),
		"expected 5110, got %s", atCeiling.DailyInterestTotal.String())
}

func TestComputeCeilingBeatsLaterSettlement(t *testing.T) {
	schedule := testSchedule()
	settlement := domain.SettlementPolicy{
		IsSettled:   true,
		SettledDate: timePtr(dayDate(1200)),
	}

	statement, err := GenerateStatement(schedule, nil, settlement, dayDate(1300))
	require.NoError(t, err)

	// The 1095-day cap produces the earlier effective date, so it wins
	assert.Equal(t, 1095, statement.Summary.LoanAgeDays)
}

func TestGenerateStatementIdempotent(t *testing.T) {
	schedule := testSchedule()
	ledger := []domain.Transaction{payment(100, 1000), payment(400, 2000)}
	settlement := domain.SettlementPolicy{}

	first, err := GenerateStatement(schedule, ledger, settlement, dayDate(450))
	require.NoError(t, err)

	second, err := GenerateStatement(schedule, ledger, settlement, dayDate(450))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateStatementEchoesWindowedTransactions(t *testing.T) {
	schedule := testSchedule()
	ledger := []domain.Transaction{
		payment(100, 1000),
		payment(600, 500), // beyond the evaluated window
	}

	statement, err := GenerateStatement(schedule, ledger, domain.SettlementPolicy{}, dayDate(450))
	require.NoError(t, err)

	require.Len(t, statement.Transactions, 1)
	assert.True(t, statement.Transactions[0].Amount.Equal(decimal.NewFromInt(1000)))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
