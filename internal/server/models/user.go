// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the verified identity carried inside a token.
type Principal struct {
	ID       string
	UserName string
}

// Principal derives the session principal of u.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, UserName: u.UserName}
}
