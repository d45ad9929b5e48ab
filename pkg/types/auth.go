package domain

import "time"

// User is an account on the hosted deployment.
type User struct {
	ID           string    `json:"id"            db:"id"`
	Email        string    `json:"email"         db:"email"`
	PasswordHash string    `json:"-"             db:"password_hash"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// Session maps an opaque bearer token to a user until it expires.
type Session struct {
	Token     string    `json:"token"      db:"token"`
	UserID    string    `json:"user_id"    db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
