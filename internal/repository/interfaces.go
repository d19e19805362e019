package repository

import (
	"context"

	"github.com/probatefin/advancement-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan with its fee-schedule snapshot
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// Update updates a loan record
	Update(ctx context.Context, loan *domain.Loan) error

	// ListUnsettled retrieves all loans that have not been settled yet
	ListUnsettled(ctx context.Context) ([]*domain.Loan, error)
}

// TransactionRepository defines the interface for repayment data operations
type TransactionRepository interface {
	// Create creates a new repayment record
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByLoanID retrieves all repayments for a loan ordered by date
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Transaction, error)
}
