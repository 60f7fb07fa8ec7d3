package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"voltbook/internal/metrics"
	"voltbook/internal/models"
	"voltbook/internal/repository"
)

// Wallet failure modes.
var (
	ErrWalletNotFound      = errors.New("wallet: not found")
	ErrInvalidAmount       = errors.New("wallet: amount must be positive")
	ErrInsufficientBalance = errors.New("wallet: insufficient balance")
)

// WalletStore defines the persistence contract for the wallet ledger.
type WalletStore interface {
	Create(ctx context.Context, userID int64) (*models.Wallet, error)
	GetByUser(ctx context.Context, userID int64) (*models.Wallet, error)
	Deposit(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error)
	Withdraw(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error)
	Transactions(ctx context.Context, userID int64, limit int) ([]models.WalletTransaction, error)
}

// WalletService wraps balance arithmetic with validation.
type WalletService struct {
	wallets WalletStore
	logger  *zap.Logger
}

// NewWalletService builds service.
func NewWalletService(wallets WalletStore, logger *zap.Logger) *WalletService {
	return &WalletService{wallets: wallets, logger: logger}
}

// Deposit credits the wallet and appends a ledger entry.
func (s *WalletService) Deposit(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	wallet, tx, err := s.wallets.Deposit(ctx, userID, amount)
	if err != nil {
		return nil, nil, mapWalletErr(err)
	}
	metrics.IncWalletTransaction(models.TransactionDeposit)
	s.logger.Info("wallet deposit", zap.Int64("user_id", userID), zap.Float64("amount", amount), zap.Float64("balance", wallet.Balance))
	return wallet, tx, nil
}

// Withdraw debits the wallet. A withdrawal that would make the balance
// negative fails and leaves the ledger untouched.
func (s *WalletService) Withdraw(ctx context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	wallet, tx, err := s.wallets.Withdraw(ctx, userID, amount)
	if err != nil {
		return nil, nil, mapWalletErr(err)
	}
	metrics.IncWalletTransaction(models.TransactionWithdrawal)
	s.logger.Info("wallet withdrawal", zap.Int64("user_id", userID), zap.Float64("amount", amount), zap.Float64("balance", wallet.Balance))
	return wallet, tx, nil
}

// Balance returns the current balance.
func (s *WalletService) Balance(ctx context.Context, userID int64) (float64, error) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		return 0, mapWalletErr(err)
	}
	return wallet.Balance, nil
}

// Transactions returns the ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID int64, limit int) ([]models.WalletTransaction, error) {
	txs, err := s.wallets.Transactions(ctx, userID, limit)
	if err != nil {
		return nil, mapWalletErr(err)
	}
	return txs, nil
}

// BalanceCheck reports whether the balance covers the amount, and the deficit if not.
type BalanceCheck struct {
	Sufficient     bool    `json:"sufficient"`
	CurrentBalance float64 `json:"current_balance"`
	RequiredAmount float64 `json:"required_amount"`
	Deficit        float64 `json:"deficit"`
}

// CheckBalance answers whether a future charge of amount would succeed.
func (s *WalletService) CheckBalance(ctx context.Context, userID int64, amount float64) (*BalanceCheck, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		return nil, mapWalletErr(err)
	}

	check := &BalanceCheck{
		Sufficient:     wallet.Balance >= amount,
		CurrentBalance: wallet.Balance,
		RequiredAmount: amount,
	}
	if !check.Sufficient {
		check.Deficit = amount - wallet.Balance
	}
	return check, nil
}

func mapWalletErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrWalletNotFound):
		return ErrWalletNotFound
	case errors.Is(err, repository.ErrInsufficientBalance):
		return ErrInsufficientBalance
	}
	return err
}
