package models

import "time"

// Token is a one-shot confirmation or password-reset code. It is
// deleted on successful use; expired rows are swept in the background.
type Token struct {
	ID        int       `json:"-" db:"id"`
	Value     string    `json:"token" db:"value"`
	UserID    int       `json:"-" db:"user_id"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
