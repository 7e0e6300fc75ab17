package model

import "time"

type PixKeyType string

const (
	PixKeyTypeCPF    PixKeyType = "CPF"
	PixKeyTypeEmail  PixKeyType = "email"
	PixKeyTypePhone  PixKeyType = "phone"
	PixKeyTypeRandom PixKeyType = "random"
)

type PixKey struct {
	ID        int        `json:"id"`
	AccountID int        `json:"account_id"`
	Type      PixKeyType `json:"type"`
	Value     string     `json:"value"`
	CreatedAt time.Time  `json:"created_at"`
}

// PixKeyTarget is the result of resolving a pix key to its owning
// account and owner, used when routing a transfer.
type PixKeyTarget struct {
	AccountID     int
	Agency        string
	Number        string
	Digit         string
	OwnerID       int
	OwnerName     string
	OwnerDocument string
}
