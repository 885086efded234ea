package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

func (db *DB) ListTricks(ctx context.Context) ([]model.Trick, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(difficulty, ''), COALESCE(description, '')
		 FROM tricks ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing tricks: %w", err)
	}

	tricks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Trick, error) {
		var t model.Trick
		err := row.Scan(&t.ID, &t.Name, &t.Difficulty, &t.Description)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning tricks: %w", err)
	}
	if tricks == nil {
		tricks = []model.Trick{}
	}
	return tricks, nil
}

func (db *DB) CreateTrick(ctx context.Context, t *model.Trick) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO tricks (name, difficulty, description) VALUES ($1, $2, $3) RETURNING id`,
		t.Name, t.Difficulty, t.Description,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage(fmt.Sprintf("Trick %q already exists", t.Name))
		}
		return fmt.Errorf("postgres: inserting trick %q: %w", t.Name, err)
	}
	return nil
}

// AddUserTrick relies on unique_user_trick for duplicates and on the
// tricks foreign key for unknown ids.
func (db *DB) AddUserTrick(ctx context.Context, userID, trickID int64) (*model.UserTrick, error) {
	ut := &model.UserTrick{UserID: userID, TrickID: trickID}
	var status string

	err := db.pool.QueryRow(ctx,
		`INSERT INTO user_tricks (user_id, trick_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, status, added_at`,
		userID, trickID, string(model.StatusLearning),
	).Scan(&ut.ID, &status, &ut.AddedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, apperror.ConflictMessage("Trick already added")
		case isForeignKeyViolation(err):
			return nil, apperror.NotFound("trick", trickID)
		}
		return nil, fmt.Errorf("postgres: adding trick %d for user %d: %w", trickID, userID, err)
	}
	ut.Status = model.TrickStatus(status)
	return ut, nil
}

func (db *DB) ListUserTricks(ctx context.Context, userID int64) ([]model.UserTrickDetail, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT t.id, t.name, COALESCE(t.description, ''), COALESCE(t.difficulty, ''), ut.status
		 FROM user_tricks ut
		 JOIN tricks t ON ut.trick_id = t.id
		 WHERE ut.user_id = $1
		 ORDER BY ut.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing tricks for user %d: %w", userID, err)
	}

	tricks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.UserTrickDetail, error) {
		var (
			d      model.UserTrickDetail
			status string
		)
		err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Difficulty, &status)
		d.Status = model.TrickStatus(status)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning user tricks: %w", err)
	}
	if tricks == nil {
		tricks = []model.UserTrickDetail{}
	}
	return tricks, nil
}

// UpdateUserTrickStatus returns the updated row via RETURNING, so a missing
// (user, trick) pair shows up as pgx.ErrNoRows.
func (db *DB) UpdateUserTrickStatus(ctx context.Context, userID, trickID int64, status model.TrickStatus) (*model.UserTrick, error) {
	var (
		ut        model.UserTrick
		newStatus string
	)
	err := db.pool.QueryRow(ctx,
		`UPDATE user_tricks SET status = $1
		 WHERE user_id = $2 AND trick_id = $3
		 RETURNING id, user_id, trick_id, status, added_at`,
		string(status), userID, trickID,
	).Scan(&ut.ID, &ut.UserID, &ut.TrickID, &newStatus, &ut.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundMessage("Trick not found for this user")
		}
		return nil, fmt.Errorf("postgres: updating trick %d for user %d: %w", trickID, userID, err)
	}
	ut.Status = model.TrickStatus(newStatus)
	return &ut, nil
}
