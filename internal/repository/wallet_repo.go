package repository

import (
	"context"
	"database/sql"
	"errors"

	"voltbook/internal/models"
)

// Sentinel errors for wallet operations.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// WalletRepository persists wallets and their append-only ledger.
type WalletRepository struct {
	db *sql.DB
}

// NewWalletRepository returns repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create provisions a wallet for the user. Existing wallets are returned as-is.
func (r *WalletRepository) Create(ctx context.Context, userID int64) (*models.Wallet, error) {
	const query = `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = wallets.updated_at
		RETURNING id, user_id, balance, created_at, updated_at
	`
	return r.scanWallet(r.db.QueryRowContext(ctx, query, userID))
}

// GetByUser fetches the user's wallet.
func (r *WalletRepository) GetByUser(ctx context.Context, userID int64) (*models.Wallet, error) {
	const query = `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`
	return r.scanWallet(r.db.QueryRowContext(ctx, query, userID))
}

// Deposit credits the balance and records the ledger entry in one transaction.
func (r *WalletRepository) Deposit(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	return r.apply(ctx, userID, amount, models.TransactionDeposit)
}

// Withdraw debits the balance and records the ledger entry in one transaction.
// A withdrawal that would make the balance negative is rejected and not recorded.
func (r *WalletRepository) Withdraw(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	return r.apply(ctx, userID, amount, models.TransactionWithdrawal)
}

// Transactions returns the ledger, newest first.
func (r *WalletRepository) Transactions(ctx context.Context, userID int64, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT t.id, t.wallet_id, t.type, t.amount, t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.WalletTransaction
	for rows.Next() {
		var tx models.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Type, &tx.Amount, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *WalletRepository) apply(ctx context.Context, userID int64, amount float64, txType string) (*models.Wallet, *models.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var wallet models.Wallet
	const lockQuery = `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`
	if err := tx.QueryRowContext(ctx, lockQuery, userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrWalletNotFound
		}
		return nil, nil, err
	}

	delta := amount
	if txType == models.TransactionWithdrawal {
		if wallet.Balance < amount {
			return nil, nil, ErrInsufficientBalance
		}
		delta = -amount
	}

	const updateQuery = `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance, updated_at
	`
	if err := tx.QueryRowContext(ctx, updateQuery, wallet.ID, delta).Scan(&wallet.Balance, &wallet.UpdatedAt); err != nil {
		return nil, nil, err
	}

	ledger := models.WalletTransaction{
		WalletID: wallet.ID,
		Type:     txType,
		Amount:   amount,
	}
	const insertQuery = `
		INSERT INTO wallet_transactions (wallet_id, type, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insertQuery, ledger.WalletID, ledger.Type, ledger.Amount).Scan(&ledger.ID, &ledger.CreatedAt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &wallet, &ledger, nil
}

func (r *WalletRepository) scanWallet(row *sql.Row) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}
