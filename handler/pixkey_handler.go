package handler

import (
	"encoding/json"
	"net/http"
	"pix-bank-api/common"
	"pix-bank-api/model"
	"pix-bank-api/service"
	"strconv"
)

type PixKeyHandler struct {
	service *service.PixKeyService
}

func NewPixKeyHandler(service *service.PixKeyService) *PixKeyHandler {
	return &PixKeyHandler{service: service}
}

// CreatePixKey registers a pix key for one of the user's accounts.
func (h *PixKeyHandler) CreatePixKey(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreatePixKeyRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	key, err := h.service.CreatePixKey(userID, req)
	if err != nil {
		switch err {
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPixKeyValueRequired:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case service.ErrPixKeyTaken:
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create pix key", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(key)
	return nil
}

// ListPixKeys lists the pix keys of one owned account.
func (h *PixKeyHandler) ListPixKeys(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid account ID in URL path", err)
	}

	keys, err := h.service.ListPixKeysForAccount(userID, accountID)
	if err != nil {
		if err == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve pix keys", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(keys)
	return nil
}

// DeletePixKey removes a pix key owned by the user.
func (h *PixKeyHandler) DeletePixKey(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	keyID, err := strconv.Atoi(r.PathValue("keyId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid pix key ID in URL path", err)
	}

	if err := h.service.DeletePixKey(userID, keyID); err != nil {
		if err == service.ErrPixKeyNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete pix key", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
