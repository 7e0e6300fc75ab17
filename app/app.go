// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"pix-bank-api/config"
	"pix-bank-api/db"
	"pix-bank-api/handler"
	"pix-bank-api/logger"
	"pix-bank-api/repository"
	"pix-bank-api/router"
	"pix-bank-api/service"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		// The cache is an optimization; the bank runs without it.
		logger.Log.WithError(err).Warn("Redis unavailable, account list caching disabled")
		redisClient = nil
	}

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	pixKeyRepo := repository.NewPixKeyRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo)
	transferService := service.NewTransferService(database, accountRepo, transactionRepo, pixKeyRepo, userRepo, authService, redisClient)
	accountService := service.NewAccountService(database, accountRepo, transactionRepo, transferService, redisClient)
	userService := service.NewUserService(userRepo, accountService)
	pixKeyService := service.NewPixKeyService(pixKeyRepo, accountRepo)
	statementService := service.NewStatementService(accountRepo, transactionRepo)

	userHandler := handler.NewUserHandler(userService, authService)
	accountHandler := handler.NewAccountHandler(accountService)
	pixKeyHandler := handler.NewPixKeyHandler(pixKeyService)
	transactionHandler := handler.NewTransactionHandler(transferService, statementService)

	r := router.NewRouter(userHandler, accountHandler, pixKeyHandler, transactionHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
