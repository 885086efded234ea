package model

// Challenge is a catalog goal. Whether a user has met it is derived from
// their mastered-trick count (see package progress); nothing is stored.
type Challenge struct {
	ID           int64  `json:"id"            db:"id"`
	Name         string `json:"name"          db:"name"`
	Description  string `json:"description"   db:"description"`
	Difficulty   string `json:"difficulty"    db:"difficulty"`
	RewardPoints int    `json:"reward_points" db:"reward_points"`
}
