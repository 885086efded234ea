package model

import "time"

// Trick is a catalog entry describing a skateboarding maneuver.
type Trick struct {
	ID          int64  `json:"id"          db:"id"`
	Name        string `json:"name"        db:"name"`
	Difficulty  string `json:"difficulty"  db:"difficulty"`
	Description string `json:"description" db:"description"`
}

// TrickStatus is the state of a user's progress on one trick.
//
// STATE MACHINE:
//
//	learning ──(updateTrickStatus "mastered")──▶ mastered
//
// There is no way back from mastered.
type TrickStatus string

const (
	StatusLearning TrickStatus = "learning"
	StatusMastered TrickStatus = "mastered"
)

// CanTransition reports whether a UserTrick may move from s to next.
// Setting mastered on an already-mastered trick is allowed (idempotent).
func (s TrickStatus) CanTransition(next TrickStatus) bool {
	return next == StatusMastered && (s == StatusLearning || s == StatusMastered)
}

// UserTrick links a user to a catalog trick. (user_id, trick_id) is unique.
type UserTrick struct {
	ID      int64       `json:"id"       db:"id"`
	UserID  int64       `json:"user_id"  db:"user_id"`
	TrickID int64       `json:"trick_id" db:"trick_id"`
	Status  TrickStatus `json:"status"   db:"status"`
	AddedAt time.Time   `json:"added_at" db:"added_at"`
}

// UserTrickDetail is a catalog trick joined with the caller's status,
// the row shape returned by GET /myTricks.
type UserTrickDetail struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Status      TrickStatus `json:"status"`
}
