// file: service/account_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAccountHasBalance    = errors.New("account cannot be deleted while it holds a balance")
	ErrNumberGenExhausted   = errors.New("could not generate a unique account number")
	ErrInvalidDepositAmount = errors.New("deposit amount must be positive")
)

// maxAccountNumberAttempts bounds the retry loop for random account
// number generation before the collision is treated as fatal.
const maxAccountNumberAttempts = 5

const recentTransactionLimit = 10

// AccountService manages account lifecycle. Balance mutations are not
// handled here: deposits are routed through the TransferService so that
// the transfer engine stays the only write path for balances.
type AccountService struct {
	db          *sql.DB
	repo        repository.IAccountRepository
	txnRepo     repository.ITransactionRepository
	transferSvc *TransferService
	redisClient *redis.Client
}

func NewAccountService(
	db *sql.DB,
	repo repository.IAccountRepository,
	txnRepo repository.ITransactionRepository,
	transferSvc *TransferService,
	redisClient *redis.Client,
) *AccountService {
	return &AccountService{
		db:          db,
		repo:        repo,
		txnRepo:     txnRepo,
		transferSvc: transferSvc,
		redisClient: redisClient,
	}
}

// AccountDetail combines an account with its most recent ledger entries
// for the account overview screen.
type AccountDetail struct {
	*model.Account
	RecentTransactions []*model.Transaction `json:"recent_transactions"`
}

// CreateNewAccount creates a zero-balance account with randomly drawn
// agency and account numbers, retrying on (agency, number) collisions.
func (s *AccountService) CreateNewAccount(userID int) (*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Creating a new account")

	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		agency, number := randomAccountNumbers()
		account := &model.Account{
			UserID: userID,
			Agency: agency,
			Number: number,
			Digit:  CalculateCheckDigit(number),
		}

		err := s.repo.Create(account)
		if err == nil {
			s.invalidateCache(userID)
			return account, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		log.WithField("attempt", attempt+1).Warn("Account number collision, retrying with fresh numbers")
	}

	return nil, ErrNumberGenExhausted
}

// ListAccountsForUser lists accounts for a specific user, utilizing a
// cache-aside strategy.
func (s *AccountService) ListAccountsForUser(userID int) ([]*model.Account, error) {
	cacheKey := fmt.Sprintf("accounts:%d", userID)
	ctx := context.Background()

	if s.redisClient != nil {
		cachedAccounts, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var accounts []*model.Account
			if err := json.Unmarshal([]byte(cachedAccounts), &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := s.repo.GetAccountsByUserID(userID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(accounts); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}

	return accounts, nil
}

// GetAllAccounts retrieves all accounts. Caching is not applied here as
// admin data may need to be fresh.
func (s *AccountService) GetAllAccounts() ([]*model.Account, error) {
	return s.repo.GetAllAccounts()
}

// GetAccountDetail returns an owned account together with its most
// recent ledger entries.
func (s *AccountService) GetAccountDetail(accountID, userID int) (*AccountDetail, error) {
	account, err := s.repo.GetByIDForOwner(accountID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	transactions, err := s.txnRepo.ListRecentByAccount(accountID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &AccountDetail{Account: account, RecentTransactions: transactions}, nil
}

// DepositToAccount credits an account through the transfer engine so
// the deposit shares the engine's locking and ledger guarantees.
func (s *AccountService) DepositToAccount(ctx context.Context, userID, accountID int, req model.DepositRequest) (*model.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidDepositAmount
	}

	return s.transferSvc.Execute(ctx, userID, model.CreateTransactionRequest{
		OriginAccountID:     accountID,
		Type:                model.TransactionTypeDeposit,
		Amount:              req.Amount,
		TransactionPassword: req.TransactionPassword,
	})
}

// DeleteAccount removes an account. The row is locked first so the
// zero-balance check cannot race with an in-flight transfer.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID, userID int) error {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Deleting account")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.repo.GetForUpdate(tx, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return err
	}
	if account.UserID != userID {
		return ErrAccountNotFound
	}

	if !account.Balance.IsZero() {
		return ErrAccountHasBalance
	}

	if err := s.repo.Delete(tx, accountID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateCache(userID)
	return nil
}

func (s *AccountService) invalidateCache(userID int) {
	if s.redisClient == nil {
		return
	}
	cacheKey := fmt.Sprintf("accounts:%d", userID)
	s.redisClient.Del(context.Background(), cacheKey)
}
