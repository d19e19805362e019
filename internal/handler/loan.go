package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/probatefin/advancement-engine/internal/domain"
	"github.com/probatefin/advancement-engine/internal/service"
	apperrors "github.com/probatefin/advancement-engine/pkg/errors"
	"github.com/probatefin/advancement-engine/pkg/response"
	"github.com/probatefin/advancement-engine/pkg/utils"
)

type LoanHandler struct {
	service   *service.StatementService
	validator *validator.Validate
}

func NewLoanHandler(service *service.StatementService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan funds a new advancement
// POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, loan)
}

// GetStatement returns the loan's position as of a date
// GET /api/v1/loans/{loanId}/statement?on_date=YYYY-MM-DD
func (h *LoanHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	asOf, err := asOfDate(r)
	if err != nil {
		respondError(w, err)
		return
	}

	statement, err := h.service.GetStatement(r.Context(), loanID, asOf)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, domain.StatementResponse{
		LoanID:    loanID,
		Statement: statement,
	})
}

// GetOutstanding returns the total due on a loan as of a date
// GET /api/v1/loans/{loanId}/outstanding?on_date=YYYY-MM-DD
func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	asOf, err := asOfDate(r)
	if err != nil {
		respondError(w, err)
		return
	}

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID, asOf)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{
		LoanID:   loanID,
		Date:     utils.DateOnly(asOf),
		TotalDue: outstanding,
	})
}

// RecordTransaction appends a repayment to the loan's ledger
// POST /api/v1/loans/{loanId}/transactions
func (h *LoanHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	transaction, err := h.service.RecordTransaction(r.Context(), loanID, &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, transaction)
}

// GetTransactions returns the loan's repayment ledger
// GET /api/v1/loans/{loanId}/transactions
func (h *LoanHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	transactions, err := h.service.GetTransactions(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, domain.TransactionsResponse{
		LoanID:       loanID,
		Transactions: transactions,
	})
}

// SettleLoan marks the advancement as repaid by the estate
// POST /api/v1/loans/{loanId}/settlement
func (h *LoanHandler) SettleLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.SettleLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.SettleLoan(r.Context(), loanID, &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, loan)
}

// ProjectCosts produces a disclosure projection for an arbitrary term
// POST /api/v1/projections
func (h *LoanHandler) ProjectCosts(w http.ResponseWriter, r *http.Request) {
	var request domain.ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	breakdown, err := h.service.ProjectCosts(&request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, breakdown)
}

// ProjectSecci produces the 12/36-month pre-contract scenario pair
// POST /api/v1/projections/secci
func (h *LoanHandler) ProjectSecci(w http.ResponseWriter, r *http.Request) {
	var request domain.SecciRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	scenarios, err := h.service.ProjectSecci(&request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, scenarios)
}

// asOfDate reads the optional on_date query parameter, defaulting to today.
func asOfDate(r *http.Request) (time.Time, error) {
	param := r.URL.Query().Get("on_date")
	if param == "" {
		return time.Now(), nil
	}

	date, err := utils.ParseDate(param)
	if err != nil {
		return time.Time{}, apperrors.WrapInvalidDate(param)
	}
	return date, nil
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrLoanNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, apperrors.ErrLoanAlreadyExists):
		response.Error(w, http.StatusConflict, "Loan already exists", err)
	case errors.Is(err, apperrors.ErrLoanAlreadySettled):
		response.Error(w, http.StatusConflict, "Loan already settled", err)
	case errors.Is(err, apperrors.ErrInvalidFeeSchedule),
		errors.Is(err, apperrors.ErrInvalidTerm),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidDate):
		response.BadRequest(w, "Invalid request", err)
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}
