package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

func (db *DB) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(difficulty, ''), reward_points
		 FROM challenges ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing challenges: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Difficulty, &c.RewardPoints); err != nil {
			return nil, fmt.Errorf("sqlite: scanning challenge row: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating challenge rows: %w", err)
	}

	return challenges, nil
}

func (db *DB) CreateChallenge(ctx context.Context, c *model.Challenge) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO challenges (name, description, difficulty, reward_points) VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, c.Difficulty, c.RewardPoints,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage(fmt.Sprintf("Challenge %q already exists", c.Name))
		}
		return fmt.Errorf("sqlite: inserting challenge %q: %w", c.Name, err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new challenge id: %w", err)
	}
	return nil
}
