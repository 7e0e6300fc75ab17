package handler

import (
	"encoding/json"
	"net/http"
	"pix-bank-api/common"
	"pix-bank-api/model"
	"pix-bank-api/service"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	transferService  *service.TransferService
	statementService *service.StatementService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(transferService *service.TransferService, statementService *service.StatementService) *TransactionHandler {
	return &TransactionHandler{
		transferService:  transferService,
		statementService: statementService,
	}
}

// CreateTransaction godoc
// @Summary      Execute a transfer or deposit
// @Description  Runs a PIX, TED or DEPOSIT operation atomically and returns the resulting ledger entry. The user must own the origin account and supply their transaction password.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transaction body model.CreateTransactionRequest true "Details of the operation"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Bad Request (e.g., insufficient funds, self transfer, invalid amount)"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "Forbidden: Invalid transaction password"
// @Failure      404  {object}  common.AppError "Origin account or pix key not found"
// @Failure      500  {object}  common.AppError "Internal server error while processing the transfer"
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transaction, err := h.transferService.Execute(r.Context(), userID, req)
	if err != nil {
		// Map specific business logic errors to appropriate HTTP status codes.
		switch err {
		case service.ErrAccountNotFound, service.ErrPixKeyNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrTransactionPasswordInvalid:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrInvalidAmount, service.ErrInvalidType, service.ErrInsufficientFunds,
			service.ErrSelfTransfer, service.ErrIncompleteDestination:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not process transfer", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// ListStatement godoc
// @Summary      List account transaction history
// @Description  Retrieves the filtered statement for an account owned by the authenticated user, newest first.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account"
// @Param        period query string false "Trailing window, e.g. 7d, 15d, 30d, 90d"
// @Param        date_from query string false "Inclusive lower bound (RFC 3339 date)"
// @Param        date_to query string false "Inclusive upper bound (RFC 3339 date)"
// @Param        type query string false "Transaction type (PIX, TED, DEPOSIT)"
// @Param        min_amount query number false "Minimum amount"
// @Param        max_amount query number false "Maximum amount"
// @Success      200  {array}   model.Transaction
// @Failure      400  {object}  common.AppError "Invalid filter or account ID"
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListStatement(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	filter, appErr := parseStatementFilter(r)
	if appErr != nil {
		return appErr
	}

	transactions, err := h.statementService.ListStatement(r.Context(), userID, accountID, filter)
	if err != nil {
		switch err {
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
	return nil
}

func parseStatementFilter(r *http.Request) (model.StatementFilter, *common.AppError) {
	query := r.URL.Query()
	filter := model.StatementFilter{
		Period: query.Get("period"),
		Type:   model.TransactionType(query.Get("type")),
	}

	if raw := query.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid date_from, expected YYYY-MM-DD", err)
		}
		filter.DateFrom = &t
	}
	if raw := query.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid date_to, expected YYYY-MM-DD", err)
		}
		// The upper bound is inclusive for the whole day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	if raw := query.Get("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid min_amount", err)
		}
		filter.MinAmount = &amount
	}
	if raw := query.Get("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, common.NewAppError(http.StatusBadRequest, "Invalid max_amount", err)
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}
