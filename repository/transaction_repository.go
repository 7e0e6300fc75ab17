package repository

import (
	"database/sql"
	"fmt"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger database
// operations. Entries are insert-only; there is no update or delete.
type ITransactionRepository interface {
	Create(tx *sql.Tx, transaction *model.Transaction) error
	ListByAccount(accountID int, filter model.StatementFilter) ([]*model.Transaction, error)
	ListRecentByAccount(accountID, limit int) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `id, origin_account_id, destination_account_id, type, amount, recipient_name, recipient_document, recipient_bank, recipient_agency, recipient_account, balance_after, created_at`

// Create inserts a new ledger entry inside the caller's transaction.
func (r *TransactionRepository) Create(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"origin_account_id": transaction.OriginAccountID,
		"type":              transaction.Type,
		"amount":            transaction.Amount.String(),
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions
		(origin_account_id, destination_account_id, type, amount, recipient_name, recipient_document, recipient_bank, recipient_agency, recipient_account, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err := tx.QueryRow(query,
		transaction.OriginAccountID,
		transaction.DestinationAccountID,
		transaction.Type,
		transaction.Amount,
		transaction.RecipientName,
		transaction.RecipientDocument,
		transaction.RecipientBank,
		transaction.RecipientAgency,
		transaction.RecipientAccount,
		transaction.BalanceAfter,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// ListByAccount retrieves the ledger entries where the account is
// either the origin or the destination, newest first, narrowed by the
// given filter.
func (r *TransactionRepository) ListByAccount(accountID int, filter model.StatementFilter) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to list transactions by account ID")

	conditions := []string{"(origin_account_id = $1 OR destination_account_id = $1)"}
	args := []interface{}{accountID}

	if from, to, ok := filter.DateBounds(); ok {
		if from != nil {
			args = append(args, *from)
			conditions = append(conditions, "created_at >= $"+strconv.Itoa(len(args)))
		}
		if to != nil {
			args = append(args, *to)
			conditions = append(conditions, "created_at <= $"+strconv.Itoa(len(args)))
		}
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conditions = append(conditions, "amount >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		conditions = append(conditions, "amount <= $"+strconv.Itoa(len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY created_at DESC`,
		transactionColumns, strings.Join(conditions, " AND "))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account ID")
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListRecentByAccount retrieves the most recent ledger entries for an
// account, used by the account detail view.
func (r *TransactionRepository) ListRecentByAccount(accountID, limit int) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"limit":      limit,
	})
	log.Info("Executing query to list recent transactions by account ID")

	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE origin_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC LIMIT $2`, transactionColumns)

	rows, err := r.DB.Query(query, accountID, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for recent transactions")
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]*model.Transaction, error) {
	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.OriginAccountID,
			&t.DestinationAccountID,
			&t.Type,
			&t.Amount,
			&t.RecipientName,
			&t.RecipientDocument,
			&t.RecipientBank,
			&t.RecipientAgency,
			&t.RecipientAccount,
			&t.BalanceAfter,
			&t.CreatedAt,
		); err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
