package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount              = errors.New("transfer amount must be greater than zero")
	ErrInvalidType                = errors.New("invalid transaction type")
	ErrAccountNotFound            = errors.New("account not found")
	ErrPixKeyNotFound             = errors.New("pix key not found")
	ErrSelfTransfer               = errors.New("cannot transfer money to the same account")
	ErrIncompleteDestination      = errors.New("recipient name, document, bank, agency and account are required for TED transfers")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrTransactionPasswordInvalid = errors.New("invalid transaction password")
	ErrPermissionDenied           = errors.New("you do not have access to this account")
)

// Recipient metadata recorded for transfers that stay inside the bank.
const homeBankCode = "341"

// ITransactionSecretVerifier is the authorization check the engine
// runs before any balance moves. Implemented by AuthService.
type ITransactionSecretVerifier interface {
	VerifyTransactionSecret(userID int, secret string) (bool, error)
}

// TransferService is the single write path for account balances. Every
// deposit and transfer runs inside one database transaction: the origin
// row (and the destination row for pix transfers) is locked, the
// transaction password is verified, balances are adjusted and exactly
// one ledger entry is written, or nothing happens at all.
type TransferService struct {
	db          *sql.DB
	accountRepo repository.IAccountRepository
	txnRepo     repository.ITransactionRepository
	pixKeyRepo  repository.IPixKeyRepository
	userRepo    repository.IUserRepository
	secrets     ITransactionSecretVerifier
	redisClient *redis.Client
}

func NewTransferService(
	db *sql.DB,
	accountRepo repository.IAccountRepository,
	txnRepo repository.ITransactionRepository,
	pixKeyRepo repository.IPixKeyRepository,
	userRepo repository.IUserRepository,
	secrets ITransactionSecretVerifier,
	redisClient *redis.Client,
) *TransferService {
	return &TransferService{
		db:          db,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		pixKeyRepo:  pixKeyRepo,
		userRepo:    userRepo,
		secrets:     secrets,
		redisClient: redisClient,
	}
}

// Execute runs one transfer on behalf of userID. On success it returns
// the ledger entry that was written; on any failure the database is
// left untouched.
func (s *TransferService) Execute(ctx context.Context, userID int, req model.CreateTransactionRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":           userID,
		"origin_account_id": req.OriginAccountID,
		"type":              req.Type,
		"amount":            req.Amount.String(),
	})
	log.Info("Starting transfer execution")

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	switch req.Type {
	case model.TransactionTypePix, model.TransactionTypeTed, model.TransactionTypeDeposit:
	default:
		return nil, ErrInvalidType
	}

	if req.Type == model.TransactionTypeTed {
		if req.RecipientName == "" || req.RecipientDocument == "" ||
			req.RecipientBank == "" || req.RecipientAgency == "" || req.RecipientAccount == "" {
			return nil, ErrIncompleteDestination
		}
	}

	// Deposits record the initiator's own document as the recipient
	// document, so the user row is needed up front.
	var initiator *model.User
	if req.Type == model.TransactionTypeDeposit {
		user, err := s.userRepo.GetUserByID(userID)
		if err != nil {
			return nil, fmt.Errorf("could not load initiating user: %w", err)
		}
		initiator = user
	}

	// Pix keys are read-only to the engine, so the alias is resolved
	// before any row is locked. The destination account itself is still
	// locked and re-read inside the transaction below.
	var target *model.PixKeyTarget
	if req.Type == model.TransactionTypePix {
		if req.PixKey == "" {
			return nil, ErrPixKeyNotFound
		}
		resolved, err := s.pixKeyRepo.ResolveAlias(req.PixKey)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrPixKeyNotFound
			}
			return nil, err
		}
		if resolved.AccountID == req.OriginAccountID {
			return nil, ErrSelfTransfer
		}
		target = resolved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	origin, destination, err := s.lockAccounts(tx, req.OriginAccountID, target)
	if err != nil {
		return nil, err
	}

	// Ownership is checked only after the row is loaded so that
	// accounts belonging to other users are indistinguishable from
	// missing ones.
	if origin.UserID != userID {
		return nil, ErrAccountNotFound
	}

	authorized, err := s.secrets.VerifyTransactionSecret(userID, req.TransactionPassword)
	if err != nil {
		return nil, fmt.Errorf("could not verify transaction password: %w", err)
	}
	if !authorized {
		return nil, ErrTransactionPasswordInvalid
	}

	outgoing := req.Type != model.TransactionTypeDeposit
	if outgoing && origin.Balance.LessThan(req.Amount) {
		return nil, ErrInsufficientFunds
	}

	delta := req.Amount
	if outgoing {
		delta = req.Amount.Neg()
	}

	newBalance, err := s.accountRepo.AdjustBalance(tx, origin.ID, delta)
	if err != nil {
		return nil, fmt.Errorf("could not update origin balance: %w", err)
	}

	if destination != nil {
		if _, err := s.accountRepo.AdjustBalance(tx, destination.ID, req.Amount); err != nil {
			return nil, fmt.Errorf("could not update destination balance: %w", err)
		}
	}

	transaction := s.buildLedgerEntry(req, initiator, target, newBalance)

	if err := s.txnRepo.Create(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateAccountCache(ctx, userID)
	if target != nil {
		s.invalidateAccountCache(ctx, target.OwnerID)
	}

	log.WithField("transaction_id", transaction.ID).Info("Transfer completed successfully")
	return transaction, nil
}

// lockAccounts acquires FOR UPDATE locks on the origin row and, for pix
// transfers, the destination row. When two rows are involved they are
// always locked in ascending account-ID order so that two opposite
// concurrent transfers cannot deadlock.
func (s *TransferService) lockAccounts(tx *sql.Tx, originID int, target *model.PixKeyTarget) (origin, destination *model.Account, err error) {
	lockOne := func(id int) (*model.Account, error) {
		acc, err := s.accountRepo.GetForUpdate(tx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				if target != nil && id == target.AccountID {
					return nil, ErrPixKeyNotFound
				}
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
		return acc, nil
	}

	if target == nil {
		origin, err = lockOne(originID)
		return origin, nil, err
	}

	first, second := originID, target.AccountID
	if second < first {
		first, second = second, first
	}

	firstAcc, err := lockOne(first)
	if err != nil {
		return nil, nil, err
	}
	secondAcc, err := lockOne(second)
	if err != nil {
		return nil, nil, err
	}

	if firstAcc.ID == originID {
		return firstAcc, secondAcc, nil
	}
	return secondAcc, firstAcc, nil
}

// buildLedgerEntry assembles the immutable ledger record, including the
// origin account's balance after the mutation and the recipient
// metadata that the statement view displays.
func (s *TransferService) buildLedgerEntry(req model.CreateTransactionRequest, initiator *model.User, target *model.PixKeyTarget, balanceAfter decimal.Decimal) *model.Transaction {
	transaction := &model.Transaction{
		OriginAccountID: req.OriginAccountID,
		Type:            req.Type,
		Amount:          req.Amount,
		BalanceAfter:    balanceAfter,
	}

	switch req.Type {
	case model.TransactionTypePix:
		destID := target.AccountID
		bank := homeBankCode
		agency := target.Agency
		account := fmt.Sprintf("%s-%s", target.Number, target.Digit)
		transaction.DestinationAccountID = &destID
		transaction.RecipientName = target.OwnerName
		transaction.RecipientDocument = target.OwnerDocument
		transaction.RecipientBank = &bank
		transaction.RecipientAgency = &agency
		transaction.RecipientAccount = &account
	case model.TransactionTypeTed:
		bank := req.RecipientBank
		agency := req.RecipientAgency
		account := req.RecipientAccount
		transaction.RecipientName = req.RecipientName
		transaction.RecipientDocument = req.RecipientDocument
		transaction.RecipientBank = &bank
		transaction.RecipientAgency = &agency
		transaction.RecipientAccount = &account
	case model.TransactionTypeDeposit:
		transaction.RecipientName = "Depósito em Conta"
		transaction.RecipientDocument = initiator.Document
	}

	return transaction
}

func (s *TransferService) invalidateAccountCache(ctx context.Context, userID int) {
	if s.redisClient == nil {
		return
	}
	cacheKey := fmt.Sprintf("accounts:%d", userID)
	s.redisClient.Del(ctx, cacheKey)
}
