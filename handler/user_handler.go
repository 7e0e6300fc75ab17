package handler

import (
	"encoding/json"
	"net/http"
	"pix-bank-api/common"
	"pix-bank-api/model"
	"pix-bank-api/service"
	"strconv"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user with separate login and transaction passwords and opens their first account.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration data"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      409  {object}  common.AppError "Email or document already registered"
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.userService.Register(req)
	if err != nil {
		switch err {
		case service.ErrEmailTaken, service.ErrDocumentTaken:
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login credentials"
// @Success      200  {object}  service.LoginResult
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	result, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if err == service.ErrInvalidRefreshToken {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
	return nil
}

// Logout invalidates every refresh token of the authenticated user.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.authService.Logout(userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateUserRole changes a user's role. Admin only.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := strconv.Atoi(r.PathValue("userId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	var req model.UpdateUserRoleRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.userService.UpdateUserRole(userID, req.Role); err != nil {
		if err == service.ErrInvalidRole {
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user role", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
