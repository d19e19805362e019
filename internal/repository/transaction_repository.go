package repository

import (
	"context"

	"github.com/probatefin/advancement-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, loan_id, amount, transaction_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.LoanID,
		tx.Amount,
		tx.Date,
		tx.Description,
		tx.CreatedAt,
	)

	return err
}

func (r *transactionRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, loan_id, amount, transaction_date, description, created_at
		FROM transactions
		WHERE loan_id = $1
		ORDER BY transaction_date, created_at
	`

	var transactions []*domain.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, loanID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
