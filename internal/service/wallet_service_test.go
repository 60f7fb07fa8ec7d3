package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/repository"
)

// fakeWalletStore keeps one wallet per user and a real ledger, enforcing the
// same no-negative-balance rule as the repository.
type fakeWalletStore struct {
	mu      sync.Mutex
	nextID  int64
	wallets map[int64]*models.Wallet
	ledger  map[int64][]models.WalletTransaction
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{
		wallets: make(map[int64]*models.Wallet),
		ledger:  make(map[int64][]models.WalletTransaction),
	}
}

func (f *fakeWalletStore) Create(_ context.Context, userID int64) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if wallet, ok := f.wallets[userID]; ok {
		copied := *wallet
		return &copied, nil
	}
	f.nextID++
	wallet := &models.Wallet{ID: f.nextID, UserID: userID}
	f.wallets[userID] = wallet
	copied := *wallet
	return &copied, nil
}

func (f *fakeWalletStore) GetByUser(_ context.Context, userID int64) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	copied := *wallet
	return &copied, nil
}

func (f *fakeWalletStore) apply(userID int64, amount float64, txType string) (*models.Wallet, *models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, nil, repository.ErrWalletNotFound
	}
	if txType == models.TransactionWithdrawal {
		if wallet.Balance < amount {
			return nil, nil, repository.ErrInsufficientBalance
		}
		wallet.Balance -= amount
	} else {
		wallet.Balance += amount
	}
	tx := models.WalletTransaction{
		ID:        int64(len(f.ledger[userID]) + 1),
		WalletID:  wallet.ID,
		Type:      txType,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	f.ledger[userID] = append(f.ledger[userID], tx)
	copied := *wallet
	return &copied, &tx, nil
}

func (f *fakeWalletStore) Deposit(_ context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	return f.apply(userID, amount, models.TransactionDeposit)
}

func (f *fakeWalletStore) Withdraw(_ context.Context, userID int64, amount float64) (*models.Wallet, *models.WalletTransaction, error) {
	return f.apply(userID, amount, models.TransactionWithdrawal)
}

func (f *fakeWalletStore) Transactions(_ context.Context, userID int64, limit int) ([]models.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.ledger[userID]
	// Newest first.
	out := make([]models.WalletTransaction, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func setupWalletService(t *testing.T) (*WalletService, *fakeWalletStore) {
	t.Helper()
	store := newFakeWalletStore()
	_, err := store.Create(context.Background(), 1)
	require.NoError(t, err)
	return NewWalletService(store, zap.NewNop()), store
}

func TestWalletDepositAndBalance(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	wallet, tx, err := svc.Deposit(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, wallet.Balance)
	assert.Equal(t, models.TransactionDeposit, tx.Type)
	assert.Equal(t, 100.0, tx.Amount)

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance)
}

func TestWalletWithdrawInsufficient(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	_, _, err := svc.Deposit(ctx, 1, 100)
	require.NoError(t, err)

	_, _, err = svc.Withdraw(ctx, 1, 150)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Failed withdrawal leaves balance and ledger untouched.
	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance)

	txs, err := svc.Transactions(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	wallet, _, err := svc.Withdraw(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	for _, amount := range []float64{0, -10} {
		_, _, err := svc.Deposit(ctx, 1, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "deposit %v", amount)
		_, _, err = svc.Withdraw(ctx, 1, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "withdraw %v", amount)
	}
}

func TestWalletUnknownUser(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	_, err := svc.Balance(ctx, 42)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, _, err = svc.Deposit(ctx, 42, 10)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWalletTransactionsNewestFirst(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	_, _, err := svc.Deposit(ctx, 1, 50)
	require.NoError(t, err)
	_, _, err = svc.Deposit(ctx, 1, 25)
	require.NoError(t, err)
	_, _, err = svc.Withdraw(ctx, 1, 30)
	require.NoError(t, err)

	txs, err := svc.Transactions(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, models.TransactionWithdrawal, txs[0].Type)
	assert.Equal(t, 30.0, txs[0].Amount)
	assert.Equal(t, 25.0, txs[1].Amount)
	assert.Equal(t, 50.0, txs[2].Amount)

	limited, err := svc.Transactions(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestWalletCheckBalance(t *testing.T) {
	svc, _ := setupWalletService(t)
	ctx := context.Background()

	_, _, err := svc.Deposit(ctx, 1, 80)
	require.NoError(t, err)

	check, err := svc.CheckBalance(ctx, 1, 50)
	require.NoError(t, err)
	assert.True(t, check.Sufficient)
	assert.Equal(t, 0.0, check.Deficit)

	check, err = svc.CheckBalance(ctx, 1, 120)
	require.NoError(t, err)
	assert.False(t, check.Sufficient)
	assert.Equal(t, 80.0, check.CurrentBalance)
	assert.Equal(t, 40.0, check.Deficit)

	_, err = svc.CheckBalance(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
