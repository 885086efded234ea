package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

func (db *DB) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(difficulty, ''), reward_points
		 FROM challenges ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing challenges: %w", err)
	}

	challenges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Challenge, error) {
		var c model.Challenge
		err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Difficulty, &c.RewardPoints)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning challenges: %w", err)
	}
	if challenges == nil {
		challenges = []model.Challenge{}
	}
	return challenges, nil
}

func (db *DB) CreateChallenge(ctx context.Context, c *model.Challenge) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO challenges (name, description, difficulty, reward_points)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Description, c.Difficulty, c.RewardPoints,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage(fmt.Sprintf("Challenge %q already exists", c.Name))
		}
		return fmt.Errorf("postgres: inserting challenge %q: %w", c.Name, err)
	}
	return nil
}
