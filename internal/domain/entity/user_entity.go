package entity

import "time"

// User is the persisted profile for an authenticated account.
// Password is a bcrypt hash; it is empty for social-only accounts.
// IsAdmin is never written by signup or login flows; only the seeder
// or a DBA promotes an account.
type User struct {
	ID         string
	Email      string
	Password   string
	Name       string
	Nick       string
	AvatarURL  string
	IsAdmin    bool
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
