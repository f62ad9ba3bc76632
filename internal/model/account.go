package model

import "time"

// AccountID uniquely identifies a registered account
type AccountID string

// Account represents a registered user
type Account struct {
	ID        AccountID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	// PasswordHash is the bcrypt hash of the account's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`
}
