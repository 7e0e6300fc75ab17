package service

import (
	"context"
	"database/sql"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"

	"github.com/sirupsen/logrus"
)

// StatementService is the read side of the ledger: it lists historical
// entries for an account, filtered and newest first. It never writes.
type StatementService struct {
	accountRepo repository.IAccountRepository
	txnRepo     repository.ITransactionRepository
}

func NewStatementService(accountRepo repository.IAccountRepository, txnRepo repository.ITransactionRepository) *StatementService {
	return &StatementService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// ListStatement retrieves the transaction history for an account owned
// by the user. An entry is included when the account is either the
// origin or the destination.
func (s *StatementService) ListStatement(ctx context.Context, userID, accountID int, filter model.StatementFilter) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"requesting_user_id": userID,
		"target_account_id":  accountID,
	})

	if _, err := s.accountRepo.GetByIDForOwner(accountID, userID); err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Statement requested for a missing or foreign account")
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return s.txnRepo.ListByAccount(accountID, filter)
}
