package domain

import "time"

// User represents a registered account. The password hash and the per-user
// upstream API credentials live alongside the identity fields because the
// whole record is persisted as a single flat-file entry.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	APIBaseURL   string    `json:"apiBaseUrl"`
	APIKey       string    `json:"apiKey"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasAPIConfig reports whether the user has stored a complete upstream
// configuration.
func (u User) HasAPIConfig() bool {
	return u.APIBaseURL != "" && u.APIKey != ""
}

// Principal is the authenticated identity materialized from a session token.
// It is request-scoped and never mutated.
type Principal struct {
	UserID   string
	Email    string
	Username string
	Admin    bool
}
