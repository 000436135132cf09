// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered principal. SecretHash is the hex-encoded one-way
// digest of the user's password; the plaintext is never stored.
type User struct {
	ID         string
	Email      string
	SecretHash string
	CreatedAt  time.Time
}
