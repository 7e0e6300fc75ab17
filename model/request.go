// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Name                string `json:"name" validate:"required,min=3,max=100"`
	Email               string `json:"email" validate:"required,email"`
	Document            string `json:"document" validate:"required,min=11,max=20"`
	Password            string `json:"password" validate:"required,min=8"`
	TransactionPassword string `json:"transaction_password" validate:"required,min=4"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the opaque refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}

// CreateTransactionRequest is the inbound payload for the transfer
// engine. The destination fields that apply depend on the type: PIX
// requires pix_key, TED requires all recipient_* fields, DEPOSIT
// requires neither.
type CreateTransactionRequest struct {
	OriginAccountID     int             `json:"origin_account_id" validate:"required"`
	Type                TransactionType `json:"type" validate:"required,oneof=PIX TED DEPOSIT"`
	Amount              decimal.Decimal `json:"amount"`
	TransactionPassword string          `json:"transaction_password" validate:"required"`
	PixKey              string          `json:"pix_key,omitempty"`
	RecipientName       string          `json:"recipient_name,omitempty"`
	RecipientDocument   string          `json:"recipient_document,omitempty"`
	RecipientBank       string          `json:"recipient_bank,omitempty"`
	RecipientAgency     string          `json:"recipient_agency,omitempty"`
	RecipientAccount    string          `json:"recipient_account,omitempty"`
}

// DepositRequest is the payload for the standalone deposit endpoint.
type DepositRequest struct {
	Amount              decimal.Decimal `json:"amount"`
	TransactionPassword string          `json:"transaction_password" validate:"required"`
}

// CreatePixKeyRequest defines the payload for registering a pix key.
// The value is ignored for random keys, which are generated server-side.
type CreatePixKeyRequest struct {
	AccountID int        `json:"account_id" validate:"required"`
	Type      PixKeyType `json:"type" validate:"required,oneof=CPF email phone random"`
	Value     string     `json:"value,omitempty"`
}
