package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

// ListTricks returns the whole catalog ordered by id. An empty catalog is an
// empty slice, not an error; the service decides what "empty" means.
func (db *DB) ListTricks(ctx context.Context) ([]model.Trick, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(difficulty, ''), COALESCE(description, '')
		 FROM tricks ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tricks: %w", err)
	}
	defer rows.Close()

	tricks := []model.Trick{}
	for rows.Next() {
		var t model.Trick
		if err := rows.Scan(&t.ID, &t.Name, &t.Difficulty, &t.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning trick row: %w", err)
		}
		tricks = append(tricks, t)
	}

	// rows.Err() reports errors that ended iteration early.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating trick rows: %w", err)
	}

	return tricks, nil
}

// CreateTrick adds a catalog entry. Names are unique.
func (db *DB) CreateTrick(ctx context.Context, t *model.Trick) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO tricks (name, difficulty, description) VALUES (?, ?, ?)`,
		t.Name, t.Difficulty, t.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ConflictMessage(fmt.Sprintf("Trick %q already exists", t.Name))
		}
		return fmt.Errorf("sqlite: inserting trick %q: %w", t.Name, err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new trick id: %w", err)
	}
	return nil
}

// AddUserTrick links the user to a catalog trick with status learning.
//
// The (user_id, trick_id) UNIQUE constraint is the only duplicate guard;
// a second add for the same pair is reported as apperror.ErrConflict.
// A trick_id missing from the catalog fails the foreign key and is reported
// as apperror.ErrNotFound.
func (db *DB) AddUserTrick(ctx context.Context, userID, trickID int64) (*model.UserTrick, error) {
	ut := &model.UserTrick{
		UserID:  userID,
		TrickID: trickID,
		Status:  model.StatusLearning,
		AddedAt: time.Now().UTC(),
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_tricks (user_id, trick_id, status, added_at) VALUES (?, ?, ?, ?)`,
		ut.UserID, ut.TrickID, string(ut.Status), ut.AddedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, apperror.ConflictMessage("Trick already added")
		case isForeignKeyViolation(err):
			return nil, apperror.NotFound("trick", trickID)
		}
		return nil, fmt.Errorf("sqlite: adding trick %d for user %d: %w", trickID, userID, err)
	}

	ut.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading new user_trick id: %w", err)
	}
	return ut, nil
}

// ListUserTricks joins the user's tricks with the catalog, oldest first.
func (db *DB) ListUserTricks(ctx context.Context, userID int64) ([]model.UserTrickDetail, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.name, COALESCE(t.description, ''), COALESCE(t.difficulty, ''), ut.status
		 FROM user_tricks ut
		 JOIN tricks t ON ut.trick_id = t.id
		 WHERE ut.user_id = ?
		 ORDER BY ut.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tricks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tricks := []model.UserTrickDetail{}
	for rows.Next() {
		var (
			d      model.UserTrickDetail
			status string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Difficulty, &status); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user trick row: %w", err)
		}
		d.Status = model.TrickStatus(status)
		tricks = append(tricks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user trick rows: %w", err)
	}

	return tricks, nil
}

// UpdateUserTrickStatus sets the status of the user's row for trickID and
// returns the updated row. apperror.ErrNotFound if the user never added it.
func (db *DB) UpdateUserTrickStatus(ctx context.Context, userID, trickID int64, status model.TrickStatus) (*model.UserTrick, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE user_tricks SET status = ? WHERE user_id = ? AND trick_id = ?`,
		string(status), userID, trickID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating trick %d for user %d: %w", trickID, userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, apperror.NotFoundMessage("Trick not found for this user")
	}

	var (
		ut        model.UserTrick
		newStatus string
	)
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, trick_id, status, added_at
		 FROM user_tricks WHERE user_id = ? AND trick_id = ?`,
		userID, trickID,
	).Scan(&ut.ID, &ut.UserID, &ut.TrickID, &newStatus, &ut.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundMessage("Trick not found for this user")
		}
		return nil, fmt.Errorf("sqlite: reading back user trick: %w", err)
	}
	ut.Status = model.TrickStatus(newStatus)

	return &ut, nil
}
