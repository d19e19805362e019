package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/probatefin/advancement-engine/internal/config"
	"github.com/probatefin/advancement-engine/internal/domain"
	"github.com/probatefin/advancement-engine/internal/engine"
	"github.com/probatefin/advancement-engine/internal/repository"
	apperrors "github.com/probatefin/advancement-engine/pkg/errors"
	"github.com/probatefin/advancement-engine/pkg/utils"
)

// StatementService orchestrates loan records, the repayment ledger and the
// accrual engine. All accrual arithmetic lives in the engine; this layer
// only loads snapshots, hands them over and caches the rendered result.
type StatementService struct {
	LoanRepo        repository.LoanRepository
	TransactionRepo repository.TransactionRepository
	redis           *redis.Client
	config          *config.Config
}

func NewStatementService(
	loanRepo repository.LoanRepository,
	transactionRepo repository.TransactionRepository,
	redis *redis.Client,
	config *config.Config,
) *StatementService {
	return &StatementService{
		LoanRepo:        loanRepo,
		TransactionRepo: transactionRepo,
		redis:           redis,
		config:          config,
	}
}

// CreateLoan funds a new advancement, snapshotting the configured fee
// percentages onto the loan record unless the request overrides them.
func (s *StatementService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	existingLoan, err := s.LoanRepo.GetByLoanID(ctx, request.LoanID)
	if err == nil && existingLoan != nil {
		return nil, apperrors.WrapLoanAlreadyExists(request.LoanID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	startDate, err := utils.ParseDate(request.StartDate)
	if err != nil {
		return nil, apperrors.WrapInvalidDate(request.StartDate)
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:            uuid.New(),
		LoanID:        request.LoanID,
		Principal:     request.Principal,
		InitialFeePct: s.pctOrDefault(request.InitialFeePct, s.config.GetInitialFeePct),
		DailyFeePct:   s.pctOrDefault(request.DailyFeePct, s.config.GetDailyFeePct),
		ExitFeePct:    s.pctOrDefault(request.ExitFeePct, s.config.GetExitFeePct),
		StartDate:     utils.DateOnly(startDate),
		Status:        domain.LoanStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := engine.ValidateSchedule(loan.FeeSchedule()); err != nil {
		return nil, err
	}

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetStatement produces the loan's position as of the given date. Results
// are cached per loan and date; the cache is best-effort and never fails
// a statement request.
func (s *StatementService) GetStatement(ctx context.Context, loanID string, asOf time.Time) (*domain.Statement, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	cacheKey := s.statementKey(loanID, asOf)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var statement domain.Statement
			if err := json.Unmarshal([]byte(cached), &statement); err == nil {
				return &statement, nil
			}
		}
	}

	transactions, err := s.TransactionRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	ledger := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		ledger = append(ledger, *tx)
	}

	statement, err := engine.GenerateStatement(loan.FeeSchedule(), ledger, loan.Settlement(), asOf)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(statement); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, s.config.GetStatementTTL()).Err(); err != nil {
				log.Printf("Failed to cache statement for loan %s: %v", loanID, err)
			}
		}
	}

	return &statement, nil
}

// GetOutstanding returns the total due on a loan as of the given date.
func (s *StatementService) GetOutstanding(ctx context.Context, loanID string, asOf time.Time) (decimal.Decimal, error) {
	statement, err := s.GetStatement(ctx, loanID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return statement.TotalDue, nil
}

// RecordTransaction appends a repayment to the loan's ledger.
func (s *StatementService) RecordTransaction(ctx context.Context, loanID string, request *domain.RecordTransactionRequest) (*domain.Transaction, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.IsSettled {
		return nil, apperrors.WrapLoanAlreadySettled(loanID)
	}

	if !request.Amount.IsPositive() {
		return nil, apperrors.WrapInvalidAmount(request.Amount.String())
	}

	date, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, apperrors.WrapInvalidDate(request.Date)
	}

	transaction := &domain.Transaction{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      request.Amount,
		Date:        utils.DateOnly(date),
		Description: request.Description,
		CreatedAt:   time.Now(),
	}

	if err := s.TransactionRepo.Create(ctx, transaction); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.invalidateStatements(ctx, loanID)

	return transaction, nil
}

// SettleLoan marks the advancement as repaid by the estate. Accrual stops
// at the settled date from here on.
func (s *StatementService) SettleLoan(ctx context.Context, loanID string, request *domain.SettleLoanRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.IsSettled {
		return nil, apperrors.WrapLoanAlreadySettled(loanID)
	}

	date, err := utils.ParseDate(request.SettledDate)
	if err != nil {
		return nil, apperrors.WrapInvalidDate(request.SettledDate)
	}

	settledDate := utils.DateOnly(date)
	loan.IsSettled = true
	loan.SettledDate = &settledDate
	loan.Status = domain.LoanStatusSettled
	loan.UpdatedAt = time.Now()

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.invalidateStatements(ctx, loanID)

	return loan, nil
}

// GetTransactions returns the loan's repayment ledger.
func (s *StatementService) GetTransactions(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	if _, err := s.getLoan(ctx, loanID); err != nil {
		return nil, err
	}

	transactions, err := s.TransactionRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return transactions, nil
}

// ProjectCosts produces a disclosure projection for an arbitrary term.
func (s *StatementService) ProjectCosts(request *domain.ProjectionRequest) (domain.CostBreakdown, error) {
	return engine.Project(
		request.Principal,
		s.pctOrDefault(request.InitialFeePct, s.config.GetInitialFeePct),
		s.pctOrDefault(request.DailyFeePct, s.config.GetDailyFeePct),
		s.pctOrDefault(request.ExitFeePct, s.config.GetExitFeePct),
		request.Months,
	)
}

// ProjectSecci produces the 12-month/36-month scenario pair for the
// pre-contract disclosure document.
func (s *StatementService) ProjectSecci(request *domain.SecciRequest) (domain.SecciScenarios, error) {
	return engine.ProjectSecci(
		request.Principal,
		s.pctOrDefault(request.InitialFeePct, s.config.GetInitialFeePct),
		s.pctOrDefault(request.DailyFeePct, s.config.GetDailyFeePct),
		s.pctOrDefault(request.ExitFeePct, s.config.GetExitFeePct),
	)
}

// RefreshStatements recomputes and re-caches today's statement for every
// unsettled loan. Used by the nightly scheduler; per-loan failures are
// logged and skipped.
func (s *StatementService) RefreshStatements(ctx context.Context) (int, error) {
	loans, err := s.LoanRepo.ListUnsettled(ctx)
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}

	today := utils.DateOnly(time.Now())
	refreshed := 0
	for _, loan := range loans {
		if s.redis != nil {
			if err := s.redis.Del(ctx, s.statementKey(loan.LoanID, today)).Err(); err != nil {
				log.Printf("Failed to drop cached statement for loan %s: %v", loan.LoanID, err)
			}
		}
		if _, err := s.GetStatement(ctx, loan.LoanID, today); err != nil {
			log.Printf("Failed to refresh statement for loan %s: %v", loan.LoanID, err)
			continue
		}
		refreshed++
	}

	return refreshed, nil
}

func (s *StatementService) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLoanNotFound(loanID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *StatementService) pctOrDefault(override *decimal.Decimal, fallback func() decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback()
}

func (s *StatementService) statementKey(loanID string, asOf time.Time) string {
	return fmt.Sprintf("statement:%s:%s", loanID, utils.FormatDate(asOf))
}

// invalidateStatements drops every cached statement for the loan after a
// ledger or settlement change. Best-effort only.
func (s *StatementService) invalidateStatements(ctx context.Context, loanID string) {
	if s.redis == nil {
		return
	}

	pattern := fmt.Sprintf("statement:%s:*", loanID)
	iter := s.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to invalidate cached statement %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Failed to scan cached statements for loan %s: %v", loanID, err)
	}
}
