package service

import (
	"database/sql"
	"os"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockAccountRepository is a mock for IAccountRepository.
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) Create(account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByIDForOwner(accountID, userID int) (*model.Account, error) {
	args := m.Called(accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountsByUserID(userID int) ([]*model.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAllAccounts() ([]*model.Account, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	args := m.Called(tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(tx *sql.Tx, accountID int, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(tx, accountID, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Delete(tx *sql.Tx, accountID int) error {
	args := m.Called(tx, accountID)
	return args.Error(0)
}

// MockTransactionRepository is a mock for ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Create(tx *sql.Tx, transaction *model.Transaction) error {
	args := m.Called(tx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByAccount(accountID int, filter model.StatementFilter) ([]*model.Transaction, error) {
	args := m.Called(accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListRecentByAccount(accountID, limit int) ([]*model.Transaction, error) {
	args := m.Called(accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

// MockPixKeyRepository is a mock for IPixKeyRepository.
type MockPixKeyRepository struct{ mock.Mock }

func (m *MockPixKeyRepository) Create(key *model.PixKey) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockPixKeyRepository) GetByAccountID(accountID int) ([]*model.PixKey, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PixKey), args.Error(1)
}

func (m *MockPixKeyRepository) GetByIDForOwner(keyID, userID int) (*model.PixKey, error) {
	args := m.Called(keyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PixKey), args.Error(1)
}

func (m *MockPixKeyRepository) ResolveAlias(value string) (*model.PixKeyTarget, error) {
	args := m.Called(value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PixKeyTarget), args.Error(1)
}

func (m *MockPixKeyRepository) Delete(keyID int) error {
	args := m.Called(keyID)
	return args.Error(0)
}

// MockUserRepository is a mock for IUserRepository.
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(userID int) (*model.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetAllUsers() ([]*model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserRole(userID int, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}

// MockTokenRepository is a mock for ITokenRepository.
type MockTokenRepository struct{ mock.Mock }

func (m *MockTokenRepository) Create(token *model.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByTokenHash(tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByUserID(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockSecretVerifier is a mock for ITransactionSecretVerifier.
type MockSecretVerifier struct{ mock.Mock }

func (m *MockSecretVerifier) VerifyTransactionSecret(userID int, secret string) (bool, error) {
	args := m.Called(userID, secret)
	return args.Bool(0), args.Error(1)
}
