package model

import "time"

// Stance is the rider's preferred foot forward.
type Stance string

const (
	StanceGoofy   Stance = "goofy"
	StanceRegular Stance = "regular"
)

// Valid reports whether s is one of the stances the database CHECK accepts.
func (s Stance) Valid() bool {
	return s == StanceGoofy || s == StanceRegular
}

// UserProfile holds the optional extended profile of a user. At most one
// row exists per user (UNIQUE user_id).
//
// NULLABLE COLUMNS AS POINTERS:
// Every profile column except user_id may be NULL. A nil pointer serializes
// as JSON null, which is what the client expects for "not filled in yet".
type UserProfile struct {
	ID             int64     `json:"id"              db:"id"`
	UserID         int64     `json:"user_id"         db:"user_id"`
	FirstName      *string   `json:"first_name"      db:"first_name"`
	LastName       *string   `json:"last_name"       db:"last_name"`
	Bio            *string   `json:"bio"             db:"bio"`
	Age            *int      `json:"age"             db:"age"`
	Location       *string   `json:"location"        db:"location"`
	Stance         *Stance   `json:"stance"          db:"stance"`
	ProfilePicture *string   `json:"profile_picture" db:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}
