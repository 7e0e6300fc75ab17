package repository

import (
	"database/sql"
	"pix-bank-api/logger"
	"pix-bank-api/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
// Balance mutations are only reachable through a caller-owned *sql.Tx so
// that every write stays inside one atomic unit.
type IAccountRepository interface {
	Create(account *model.Account) error
	GetByIDForOwner(accountID, userID int) (*model.Account, error)
	GetAccountsByUserID(userID int) ([]*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	GetForUpdate(tx *sql.Tx, accountID int) (*model.Account, error)
	AdjustBalance(tx *sql.Tx, accountID int, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(tx *sql.Tx, accountID int) error
}

// AccountRepository implements IAccountRepository.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used to retry random account number generation.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// UniqueViolationConstraint returns the name of the violated unique
// constraint, letting callers tell apart which column collided.
func UniqueViolationConstraint(err error) (string, bool) {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}

// Create inserts a new account with a zero balance.
func (r *AccountRepository) Create(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": account.UserID,
		"agency":  account.Agency,
		"number":  account.Number,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, agency, number, digit) VALUES ($1, $2, $3, $4) RETURNING id, balance, created_at`
	err := r.DB.QueryRow(query, account.UserID, account.Agency, account.Number, account.Digit).
		Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.WithError(err).Error("Failed to execute create account query")
		}
		return err
	}
	return nil
}

// GetByIDForOwner retrieves an account only if it belongs to the given
// user. Accounts owned by other users surface as sql.ErrNoRows.
func (r *AccountRepository) GetByIDForOwner(accountID, userID int) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"user_id":    userID,
	})
	log.Info("Executing query to get account by ID for owner")

	account := &model.Account{}
	query := `SELECT id, user_id, agency, number, digit, balance, created_at FROM accounts WHERE id = $1 AND user_id = $2`
	err := r.DB.QueryRow(query, accountID, userID).
		Scan(&account.ID, &account.UserID, &account.Agency, &account.Number, &account.Digit, &account.Balance, &account.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account by ID query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByUserID retrieves all accounts for a specific user.
func (r *AccountRepository) GetAccountsByUserID(userID int) ([]*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get accounts by user ID")

	query := `SELECT id, user_id, agency, number, digit, balance, created_at FROM accounts WHERE user_id = $1 ORDER BY id`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by user ID")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Agency, &acc.Number, &acc.Digit, &acc.Balance, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetAllAccounts retrieves all accounts from the database. For admin use only.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	logger.Log.Info("Executing query to get all accounts")

	query := `SELECT id, user_id, agency, number, digit, balance, created_at FROM accounts ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Agency, &acc.Number, &acc.Digit, &acc.Balance, &acc.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetForUpdate locks the account row for the duration of the caller's
// transaction, freezing its balance against concurrent transfers.
func (r *AccountRepository) GetForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT id, user_id, agency, number, digit, balance FROM accounts WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, accountID).
		Scan(&account.ID, &account.UserID, &account.Agency, &account.Number, &account.Digit, &account.Balance)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

// AdjustBalance applies a relative balance change inside the caller's
// transaction and returns the resulting balance. The delta is negative
// for debits.
func (r *AccountRepository) AdjustBalance(tx *sql.Tx, accountID int, delta decimal.Decimal) (decimal.Decimal, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"delta":      delta.String(),
	})
	log.Info("Executing query to adjust account balance")

	var newBalance decimal.Decimal
	query := `UPDATE accounts SET balance = balance + $1 WHERE id = $2 RETURNING balance`
	err := tx.QueryRow(query, delta, accountID).Scan(&newBalance)
	if err != nil {
		log.WithError(err).Error("Failed to execute adjust account balance query")
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Delete removes an account row inside the caller's transaction. The
// zero-balance precondition is checked by the service while the row is
// locked.
func (r *AccountRepository) Delete(tx *sql.Tx, accountID int) error {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to delete account")

	query := `DELETE FROM accounts WHERE id = $1`
	if _, err := tx.Exec(query, accountID); err != nil {
		log.WithError(err).Error("Failed to execute delete account query")
		return err
	}
	return nil
}
