package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound       = errors.New("loan not found")
	ErrLoanAlreadyExists  = errors.New("loan already exists")
	ErrLoanAlreadySettled = errors.New("loan is already settled")
	ErrInvalidFeeSchedule = errors.New("invalid fee schedule")
	ErrInvalidTerm        = errors.New("term must be a positive number of months")
	ErrInvalidAmount      = errors.New("invalid transaction amount")
	ErrInvalidDate        = errors.New("invalid date")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound       = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists  = "LOAN_ALREADY_EXISTS"
	ErrCodeLoanAlreadySettled = "LOAN_ALREADY_SETTLED"
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
	ErrCodeInvalidTerm        = "INVALID_TERM"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("Loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapLoanAlreadySettled(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadySettled,
		fmt.Sprintf("Loan with ID %s is already settled", loanID),
		ErrLoanAlreadySettled,
	)
}

// WrapConfiguration flags a fee-schedule field that failed validation,
// naming the field so the caller knows which input to correct.
func WrapConfiguration(field, value string) *BusinessError {
	return NewBusinessError(
		ErrCodeConfiguration,
		fmt.Sprintf("%s must be non-negative, got %s", field, value),
		ErrInvalidFeeSchedule,
	)
}

func WrapInvalidTerm(months int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerm,
		fmt.Sprintf("Projection term must be at least 1 month, got %d", months),
		ErrInvalidTerm,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Transaction amount must be positive, got %s", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidDate(value string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDate,
		fmt.Sprintf("Date %q is not a valid YYYY-MM-DD date", value),
		ErrInvalidDate,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
