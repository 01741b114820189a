package entity

import "time"

type User struct {
	ID           uint64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a server-side session row. The browser only ever holds a signed
// reference to Token.
type Session struct {
	ID        uint64
	UserID    uint64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasswordReset holds the single outstanding reset token for an email
// address. A new request replaces Token and CreatedAt in place.
type PasswordReset struct {
	Email     string
	Token     string
	CreatedAt time.Time
}
