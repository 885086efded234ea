// Package progress derives challenge progress and reward points from a user's
// tricks and the challenge catalog.
//
// Nothing here touches storage. The numbers are recomputed from scratch every
// time they are asked for, by the client session and by GET /myProgress alike,
// so both always agree.
package progress

import (
	"github.com/sakif/skate-tracker/internal/model"
)

// Difficulty tiers a challenge may carry, and the number of mastered tricks
// each one requires.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

var thresholds = map[string]int{
	DifficultyEasy:   5,
	DifficultyMedium: 10,
	DifficultyHard:   20,
}

// Threshold returns the mastered-trick count a challenge of the given
// difficulty requires. ok is false for unknown tiers; such challenges can
// never be completed.
func Threshold(difficulty string) (required int, ok bool) {
	required, ok = thresholds[difficulty]
	return required, ok
}

// MasteredCount counts tricks whose status is mastered. A nil slice counts 0.
func MasteredCount(tricks []model.UserTrickDetail) int {
	n := 0
	for _, t := range tricks {
		if t.Status == model.StatusMastered {
			n++
		}
	}
	return n
}

// TrickCompletion is the share of the user's tricks that are mastered,
// in [0, 1]. No tricks means 0.
func TrickCompletion(tricks []model.UserTrickDetail) float64 {
	if len(tricks) == 0 {
		return 0
	}
	return float64(MasteredCount(tricks)) / float64(len(tricks))
}

// ChallengeProgress is one challenge evaluated against a mastered count.
type ChallengeProgress struct {
	Challenge model.Challenge `json:"challenge"`
	// Required is 0 when the difficulty tier is unknown.
	Required  int     `json:"required"`
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// Summary is the full derived view for one user.
type Summary struct {
	MasteredCount   int                 `json:"mastered_count"`
	TotalTricks     int                 `json:"total_tricks"`
	TrickCompletion float64             `json:"trick_completion"`
	Challenges      []ChallengeProgress `json:"challenges"`
	TotalPoints     int                 `json:"total_points"`
}

// Evaluate scores every challenge for the given mastered count.
//
// Progress is min(mastered/required, 1); a challenge is completed once
// mastered >= required, and only completed challenges add their
// reward_points to the total.
func Evaluate(mastered int, challenges []model.Challenge) ([]ChallengeProgress, int) {
	out := make([]ChallengeProgress, 0, len(challenges))
	total := 0

	for _, c := range challenges {
		cp := ChallengeProgress{Challenge: c}

		if required, ok := Threshold(c.Difficulty); ok {
			cp.Required = required
			cp.Progress = min(float64(mastered)/float64(required), 1)
			cp.Completed = mastered >= required
		}

		if cp.Completed {
			total += c.RewardPoints
		}
		out = append(out, cp)
	}

	return out, total
}

// TotalPoints is the sum of reward_points over completed challenges.
func TotalPoints(tricks []model.UserTrickDetail, challenges []model.Challenge) int {
	_, total := Evaluate(MasteredCount(tricks), challenges)
	return total
}

// Summarize builds the complete Summary for a user's tricks.
func Summarize(tricks []model.UserTrickDetail, challenges []model.Challenge) Summary {
	mastered := MasteredCount(tricks)
	scored, total := Evaluate(mastered, challenges)

	return Summary{
		MasteredCount:   mastered,
		TotalTricks:     len(tricks),
		TrickCompletion: TrickCompletion(tricks),
		Challenges:      scored,
		TotalPoints:     total,
	}
}
