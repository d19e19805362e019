package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a repayment against a loan's outstanding principal. The
// accrual engine only reads Amount, Date and Description; the remaining
// fields identify the stored row.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      string          `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"transaction_date"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type TransactionsResponse struct {
	LoanID       string         `json:"loan_id"`
	Transactions []*Transaction `json:"transactions"`
}
