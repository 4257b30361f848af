package models

import "time"

// User is a registered account. PasswordHash holds the bcrypt digest and
// must never leave the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
