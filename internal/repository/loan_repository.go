package repository

import (
	"context"
	"time"

	"github.com/probatefin/advancement-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, loan_id, principal, initial_fee_pct, daily_fee_pct, exit_fee_pct, start_date, status, is_settled, settled_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.Principal,
		loan.InitialFeePct,
		loan.DailyFeePct,
		loan.ExitFeePct,
		loan.StartDate,
		loan.Status,
		loan.IsSettled,
		loan.SettledDate,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `
		SELECT id, loan_id, principal, initial_fee_pct, daily_fee_pct, exit_fee_pct, start_date, status, is_settled, settled_date, created_at, updated_at
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $2, is_settled = $3, settled_date = $4, updated_at = $5
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.Status,
		loan.IsSettled,
		loan.SettledDate,
		time.Now(),
	)

	return err
}

func (r *loanRepository) ListUnsettled(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT id, loan_id, principal, initial_fee_pct, daily_fee_pct, exit_fee_pct, start_date, status, is_settled, settled_date, created_at, updated_at
		FROM loans
		WHERE is_settled = FALSE
		ORDER BY start_date
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query)
	if err != nil {
		return nil, err
	}

	return loans, nil
}
