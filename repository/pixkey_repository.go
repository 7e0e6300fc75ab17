package repository

import (
	"database/sql"
	"pix-bank-api/logger"
	"pix-bank-api/model"

	"github.com/sirupsen/logrus"
)

// IPixKeyRepository defines the contract for pix key database operations.
type IPixKeyRepository interface {
	Create(key *model.PixKey) error
	GetByAccountID(accountID int) ([]*model.PixKey, error)
	GetByIDForOwner(keyID, userID int) (*model.PixKey, error)
	ResolveAlias(value string) (*model.PixKeyTarget, error)
	Delete(keyID int) error
}

// PixKeyRepository implements IPixKeyRepository.
type PixKeyRepository struct {
	DB *sql.DB
}

func NewPixKeyRepository(db *sql.DB) *PixKeyRepository {
	return &PixKeyRepository{DB: db}
}

// Create inserts a new pix key. Key values are globally unique; a
// collision surfaces as a unique-constraint violation.
func (r *PixKeyRepository) Create(key *model.PixKey) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": key.AccountID,
		"type":       key.Type,
	})
	log.Info("Executing query to create a new pix key")

	query := `INSERT INTO pix_keys (account_id, type, value) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(query, key.AccountID, key.Type, key.Value).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.WithError(err).Error("Failed to execute create pix key query")
		}
		return err
	}
	return nil
}

// GetByAccountID retrieves all pix keys registered for an account.
func (r *PixKeyRepository) GetByAccountID(accountID int) ([]*model.PixKey, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get pix keys by account ID")

	query := `SELECT id, account_id, type, value, created_at FROM pix_keys WHERE account_id = $1 ORDER BY id`
	rows, err := r.DB.Query(query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for pix keys by account ID")
		return nil, err
	}
	defer rows.Close()

	var keys []*model.PixKey
	for rows.Next() {
		var k model.PixKey
		if err := rows.Scan(&k.ID, &k.AccountID, &k.Type, &k.Value, &k.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan pix key row")
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// GetByIDForOwner retrieves a pix key only if the owning account
// belongs to the given user.
func (r *PixKeyRepository) GetByIDForOwner(keyID, userID int) (*model.PixKey, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"key_id":  keyID,
		"user_id": userID,
	})
	log.Info("Executing query to get pix key by ID for owner")

	key := &model.PixKey{}
	query := `SELECT pk.id, pk.account_id, pk.type, pk.value, pk.created_at
		FROM pix_keys pk
		JOIN accounts a ON a.id = pk.account_id
		WHERE pk.id = $1 AND a.user_id = $2`
	err := r.DB.QueryRow(query, keyID, userID).Scan(&key.ID, &key.AccountID, &key.Type, &key.Value, &key.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get pix key by ID query")
		}
		return nil, err
	}
	return key, nil
}

// ResolveAlias resolves a pix key value to its owning account and
// owner. Lookup is an exact match on the globally unique key value.
func (r *PixKeyRepository) ResolveAlias(value string) (*model.PixKeyTarget, error) {
	logger.Log.Info("Executing query to resolve pix key")

	target := &model.PixKeyTarget{}
	query := `SELECT a.id, a.agency, a.number, a.digit, u.id, u.name, u.document
		FROM pix_keys pk
		JOIN accounts a ON a.id = pk.account_id
		JOIN users u ON u.id = a.user_id
		WHERE pk.value = $1`
	err := r.DB.QueryRow(query, value).Scan(
		&target.AccountID,
		&target.Agency,
		&target.Number,
		&target.Digit,
		&target.OwnerID,
		&target.OwnerName,
		&target.OwnerDocument,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Log.Info("Pix key not found")
		} else {
			logger.Log.WithError(err).Error("Failed to execute resolve pix key query")
		}
		return nil, err
	}
	return target, nil
}

// Delete removes a pix key.
func (r *PixKeyRepository) Delete(keyID int) error {
	log := logger.Log.WithField("key_id", keyID)
	log.Info("Executing query to delete pix key")

	query := `DELETE FROM pix_keys WHERE id = $1`
	if _, err := r.DB.Exec(query, keyID); err != nil {
		log.WithError(err).Error("Failed to execute delete pix key query")
		return err
	}
	return nil
}
