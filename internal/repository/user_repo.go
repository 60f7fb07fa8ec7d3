package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"voltbook/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, first_name, last_name, email, password_hash, mobile, pincode,
	profile_image, role, subscription, subscription_start, subscription_end, created_at, updated_at`

// UserRepository handles CRUD for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `
		INSERT INTO users (first_name, last_name, email, password_hash, mobile, pincode, profile_image, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Mobile,
		user.Pincode,
		user.ProfileImage,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile persists mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	const query = `
		UPDATE users
		SET first_name = $2, last_name = $3, mobile = $4, pincode = $5, profile_image = $6, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Mobile,
		user.Pincode,
		user.ProfileImage,
	)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

// SetSubscription activates or clears the subscription window.
func (r *UserRepository) SetSubscription(ctx context.Context, userID int64, active bool, start, end *time.Time) error {
	const query = `
		UPDATE users
		SET subscription = $2, subscription_start = $3, subscription_end = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, active, start, end)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Mobile,
		&user.Pincode,
		&user.ProfileImage,
		&user.Role,
		&user.Subscription,
		&user.SubscriptionStart,
		&user.SubscriptionEnd,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func requireRow(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}
