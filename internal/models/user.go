package models

import "time"

// Roles carried in JWT claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User owns vehicles and a wallet. Subscription gates pre-booking.
type User struct {
	ID                int64      `db:"id" json:"id"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Mobile            string     `db:"mobile" json:"mobile,omitempty"`
	Pincode           string     `db:"pincode" json:"pincode,omitempty"`
	ProfileImage      string     `db:"profile_image" json:"profile_image,omitempty"`
	Role              string     `db:"role" json:"role"`
	Subscription      bool       `db:"subscription" json:"subscription"`
	SubscriptionStart *time.Time `db:"subscription_start" json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `db:"subscription_end" json:"subscription_end,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// CanPreBook reports whether the user may create future-dated bookings.
// Expiry is evaluated against now, not the stored flag alone.
func (u *User) CanPreBook(now time.Time) bool {
	if !u.Subscription {
		return false
	}
	if u.SubscriptionEnd != nil && !u.SubscriptionEnd.After(now) {
		return false
	}
	return true
}
