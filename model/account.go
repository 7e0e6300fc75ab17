package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Agency    string          `json:"agency"`
	Number    string          `json:"number"`
	Digit     string          `json:"digit"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}
