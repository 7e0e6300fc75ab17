package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	// Password hashes are never exposed in JSON responses.
	PasswordHash            string    `json:"-"`
	TransactionPasswordHash string    `json:"-"`
	Role                    Role      `json:"role"`
	CreatedAt               time.Time `json:"created_at"`
}
