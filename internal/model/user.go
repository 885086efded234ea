// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash HAS `json:"-"`?
// The struct is returned from signup. The "-" tag tells encoding/json to skip
// the field entirely, so the bcrypt hash can never leak into a response body,
// no matter which handler serializes the user.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the public slice of a User returned by GET /profile.
type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{Username: u.Username, Email: u.Email}
}
