package models

import "time"

// Wallet transaction types.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
)

// Wallet is one-to-one with a user. Balance never goes negative.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Balance   float64   `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WalletTransaction is an append-only ledger entry.
type WalletTransaction struct {
	ID        int64     `db:"id" json:"id"`
	WalletID  int64     `db:"wallet_id" json:"wallet_id"`
	Type      string    `db:"type" json:"type"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
