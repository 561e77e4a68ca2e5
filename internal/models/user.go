package models

import "time"

// User represents an author or commenter account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Stored credential. Plaintext values may exist in data imported from
	// the legacy system; see internal/credentials. Never expose this.
	Password        string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
