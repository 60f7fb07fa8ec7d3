package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/password"
	"voltbook/internal/repository"
)

type fakeUserStore struct {
	nextID int64
	byID   map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, user *models.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) SetSubscription(_ context.Context, userID int64, active bool, start, end *time.Time) error {
	user, ok := f.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Subscription = active
	user.SubscriptionStart = start
	user.SubscriptionEnd = end
	return nil
}

type fakeWalletProvisioner struct {
	created []int64
}

func (f *fakeWalletProvisioner) Create(_ context.Context, userID int64) (*models.Wallet, error) {
	f.created = append(f.created, userID)
	return &models.Wallet{ID: int64(len(f.created)), UserID: userID}, nil
}

func setupAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeWalletProvisioner) {
	t.Helper()
	users := newFakeUserStore()
	wallets := &fakeWalletProvisioner{}
	hasher := password.NewBcryptHasher(4)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(users, wallets, hasher, tokens, zap.NewNop()), users, wallets
}

func signupInput() SignupInput {
	return SignupInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Password:  "s3cret-pass",
		Mobile:    "9800011122",
		Pincode:   "560001",
	}
}

func TestSignupProvisionsWallet(t *testing.T) {
	svc, _, wallets := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.Len(t, wallets.created, 1)
	assert.Equal(t, user.ID, wallets.created[0])
}

func TestSignupNormalizesAndRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	dup := signupInput()
	dup.Email = "  ASHA@Example.COM "
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignupRequiredFields(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	for _, mutate := range []func(*SignupInput){
		func(in *SignupInput) { in.FirstName = "" },
		func(in *SignupInput) { in.LastName = "" },
		func(in *SignupInput) { in.Email = " " },
		func(in *SignupInput) { in.Password = "" },
	} {
		in := signupInput()
		mutate(&in)
		_, err := svc.Signup(ctx, in)
		assert.ErrorIs(t, err, ErrMissingField)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Mobile: "9111122233"})
	require.NoError(t, err)
	assert.Equal(t, "9111122233", updated.Mobile)
	assert.Equal(t, "Asha", updated.FirstName)

	_, err = svc.UpdateProfile(ctx, 999, UpdateProfileInput{Mobile: "1"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubscribeWindow(t *testing.T) {
	svc, users, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	before := time.Now().UTC()
	subscribed, err := svc.Subscribe(ctx, user.ID)
	require.NoError(t, err)

	require.NotNil(t, subscribed.SubscriptionStart)
	require.NotNil(t, subscribed.SubscriptionEnd)
	assert.True(t, subscribed.Subscription)
	assert.WithinDuration(t, before.Add(subscriptionPeriod), *subscribed.SubscriptionEnd, time.Minute)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.CanPreBook(time.Now()))
	assert.False(t, stored.CanPreBook(time.Now().Add(subscriptionPeriod+time.Hour)))
}
