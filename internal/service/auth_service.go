package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/password"
	"voltbook/internal/repository"
)

// Auth failure modes.
var (
	ErrEmailInUse         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrMissingField       = errors.New("auth: required field missing")
)

// Subscription purchases activate a fixed 90-day window.
const subscriptionPeriod = 90 * 24 * time.Hour

// UserStore defines the storage contract used by the auth service.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetSubscription(ctx context.Context, userID int64, active bool, start, end *time.Time) error
}

// WalletProvisioner creates the user's wallet at signup.
type WalletProvisioner interface {
	Create(ctx context.Context, userID int64) (*models.Wallet, error)
}

// AuthService contains registration, login and subscription logic.
type AuthService struct {
	users     UserStore
	wallets   WalletProvisioner
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(users UserStore, wallets WalletProvisioner, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		wallets:   wallets,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// SignupInput carries a registration request.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Mobile    string
	Pincode   string
}

// Signup registers a new user and provisions their wallet.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingField
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Mobile:       input.Mobile,
		Pincode:      input.Pincode,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Create(ctx, user.ID); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Profile returns the user's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput carries mutable profile fields.
type UpdateProfileInput struct {
	FirstName    string
	LastName     string
	Mobile       string
	Pincode      string
	ProfileImage string
}

// UpdateProfile persists profile changes.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Mobile != "" {
		user.Mobile = input.Mobile
	}
	if input.Pincode != "" {
		user.Pincode = input.Pincode
	}
	if input.ProfileImage != "" {
		user.ProfileImage = input.ProfileImage
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Subscribe activates a 90-day subscription window starting now.
func (s *AuthService) Subscribe(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	end := start.Add(subscriptionPeriod)
	if err := s.users.SetSubscription(ctx, userID, true, &start, &end); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Subscription = true
	user.SubscriptionStart = &start
	user.SubscriptionEnd = &end

	s.logger.Info("subscription activated", zap.Int64("user_id", userID), zap.Time("until", end))
	return user, nil
}
