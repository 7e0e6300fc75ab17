package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypePix     TransactionType = "PIX"
	TransactionTypeTed     TransactionType = "TED"
	TransactionTypeDeposit TransactionType = "DEPOSIT"
)

// Transaction is an immutable ledger entry for one completed
// balance-affecting operation. BalanceAfter is the origin account's
// balance at the moment the entry was written.
type Transaction struct {
	ID                   int             `json:"id"`
	OriginAccountID      int             `json:"origin_account_id"`
	DestinationAccountID *int            `json:"destination_account_id,omitempty"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	RecipientName        string          `json:"recipient_name"`
	RecipientDocument    string          `json:"recipient_document"`
	RecipientBank        *string         `json:"recipient_bank,omitempty"`
	RecipientAgency      *string         `json:"recipient_agency,omitempty"`
	RecipientAccount     *string         `json:"recipient_account,omitempty"`
	BalanceAfter         decimal.Decimal `json:"balance_after"`
	CreatedAt            time.Time       `json:"created_at"`
}
