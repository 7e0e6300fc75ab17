package repository

import (
	"database/sql"
	"pix-bank-api/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(userID int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUserRole(userID int, newRole string) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (name, email, document, password_hash, transaction_password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.DB.QueryRow(query, user.Name, user.Email, user.Document, user.PasswordHash, user.TransactionPasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetUserByID(userID int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, name, email, document, password_hash, transaction_password_hash, role, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, userID).
		Scan(&user.ID, &user.Name, &user.Email, &user.Document, &user.PasswordHash, &user.TransactionPasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, name, email, document, password_hash, transaction_password_hash, role, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Document, &user.PasswordHash, &user.TransactionPasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	query := `SELECT id, name, email, document, role, created_at FROM users ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Document, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUserRole(userID int, newRole string) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, newRole, userID)
	return err
}
