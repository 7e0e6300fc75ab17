package handler

import (
	"encoding/json"
	"net/http"
	"pix-bank-api/common"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/service"
	"strconv"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccount handles the request to create a new bank account.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithField("user_id", userID)
	log.Info("Create account request received")

	account, err := h.service.CreateNewAccount(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
	return nil
}

// ListAccounts lists the authenticated user's accounts.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accounts, err := h.service.ListAccountsForUser(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}

// GetAccount shows one owned account with its recent transactions.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	detail, err := h.service.GetAccountDetail(accountID, userID)
	if err != nil {
		if err == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(detail)
	return nil
}

// GetAllAccounts retrieves every account. Admin only.
func (h *AccountHandler) GetAllAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	accounts, err := h.service.GetAllAccounts()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}

// Deposit godoc
// @Summary      Deposit funds into an account
// @Description  Credits the account through the transfer engine; requires the transaction password.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountId path int true "The ID of the account to credit"
// @Param        deposit body model.DepositRequest true "Deposit amount and transaction password"
// @Success      200  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid amount"
// @Failure      403  {object}  common.AppError "Invalid transaction password"
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/accounts/{accountId}/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	var req model.DepositRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	transaction, err := h.service.DepositToAccount(r.Context(), userID, accountID, req)
	if err != nil {
		switch err {
		case service.ErrInvalidDepositAmount, service.ErrInvalidAmount:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case service.ErrTransactionPasswordInvalid:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not process deposit", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// DeleteAccount removes an owned account with a zero balance.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	if err := h.service.DeleteAccount(r.Context(), accountID, userID); err != nil {
		switch err {
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrAccountHasBalance:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not delete account", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
