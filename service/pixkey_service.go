package service

import (
	"database/sql"
	"errors"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPixKeyValueRequired = errors.New("pix key value is required for this key type")
	ErrPixKeyTaken         = errors.New("pix key value is already registered")
)

// PixKeyService manages the aliases that route pix transfers.
type PixKeyService struct {
	repo        repository.IPixKeyRepository
	accountRepo repository.IAccountRepository
}

func NewPixKeyService(repo repository.IPixKeyRepository, accountRepo repository.IAccountRepository) *PixKeyService {
	return &PixKeyService{
		repo:        repo,
		accountRepo: accountRepo,
	}
}

// CreatePixKey registers a new key for an account owned by the user.
// Random keys get a server-generated opaque value; all other kinds use
// the client-provided value.
func (s *PixKeyService) CreatePixKey(userID int, req model.CreatePixKeyRequest) (*model.PixKey, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"account_id": req.AccountID,
		"type":       req.Type,
	})
	log.Info("Creating a new pix key")

	if _, err := s.accountRepo.GetByIDForOwner(req.AccountID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	value := req.Value
	if req.Type == model.PixKeyTypeRandom {
		value = uuid.NewString()
	} else if value == "" {
		return nil, ErrPixKeyValueRequired
	}

	key := &model.PixKey{
		AccountID: req.AccountID,
		Type:      req.Type,
		Value:     value,
	}

	if err := s.repo.Create(key); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrPixKeyTaken
		}
		return nil, err
	}
	return key, nil
}

// ListPixKeysForAccount lists the keys of an account owned by the user.
func (s *PixKeyService) ListPixKeysForAccount(userID, accountID int) ([]*model.PixKey, error) {
	if _, err := s.accountRepo.GetByIDForOwner(accountID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return s.repo.GetByAccountID(accountID)
}

// DeletePixKey removes a key after verifying the caller owns the
// account it is attached to.
func (s *PixKeyService) DeletePixKey(userID, keyID int) error {
	key, err := s.repo.GetByIDForOwner(keyID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPixKeyNotFound
		}
		return err
	}
	return s.repo.Delete(key.ID)
}
