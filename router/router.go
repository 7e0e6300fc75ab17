package router

import (
	"net/http"
	"pix-bank-api/common"
	"pix-bank-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "pix-bank-api/docs"
)

func NewRouter(
	userHandler *handler.UserHandler,
	accountHandler *handler.AccountHandler,
	pixKeyHandler *handler.PixKeyHandler,
	transactionHandler *handler.TransactionHandler,
) http.Handler {
	mux := http.NewServeMux()

	// handle wraps an AppError-returning handler; protected adds the JWT
	// check, admin additionally requires the admin role.
	handle := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.ErrorHandlingMiddleware(h)
	}
	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.AuthMiddleware(handle(h))
	}
	admin := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.AuthMiddleware(handler.AdminMiddleware(handle(h)))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /register", handle(userHandler.Register))
	mux.Handle("POST /login", handle(userHandler.Login))
	mux.Handle("POST /refresh", handle(userHandler.Refresh))
	mux.Handle("POST /api/logout", protected(userHandler.Logout))

	mux.Handle("POST /api/accounts", protected(accountHandler.CreateAccount))
	mux.Handle("GET /api/accounts", protected(accountHandler.ListAccounts))
	mux.Handle("GET /api/accounts/{accountId}", protected(accountHandler.GetAccount))
	mux.Handle("DELETE /api/accounts/{accountId}", protected(accountHandler.DeleteAccount))
	mux.Handle("POST /api/accounts/{accountId}/deposit", protected(accountHandler.Deposit))
	mux.Handle("GET /api/accounts/{accountId}/transactions", protected(transactionHandler.ListStatement))
	mux.Handle("GET /api/accounts/{accountId}/pix-keys", protected(pixKeyHandler.ListPixKeys))

	mux.Handle("POST /api/pix-keys", protected(pixKeyHandler.CreatePixKey))
	mux.Handle("DELETE /api/pix-keys/{keyId}", protected(pixKeyHandler.DeletePixKey))

	mux.Handle("POST /api/transactions", protected(transactionHandler.CreateTransaction))

	mux.Handle("GET /api/admin/users", admin(userHandler.ListUsers))
	mux.Handle("PUT /api/admin/users/{userId}/role", admin(userHandler.UpdateUserRole))
	mux.Handle("GET /api/admin/accounts", admin(accountHandler.GetAllAccounts))

	return mux
}
