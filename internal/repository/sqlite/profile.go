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

const profileColumns = `id, user_id, first_name, last_name, bio, age, location, stance, profile_picture, created_at`

// UpsertProfile inserts the user's profile or replaces every field of the
// existing one.
//
// The existence check and the write share one transaction, and the write is
// a single INSERT ... ON CONFLICT(user_id) DO UPDATE, so two concurrent saves
// for the same user can never produce two rows.
func (db *DB) UpsertProfile(ctx context.Context, p *model.UserProfile) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning profile upsert: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	var existingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM user_profiles WHERE user_id = ?`, p.UserID,
	).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("sqlite: checking profile for user %d: %w", p.UserID, err)
	}
	created := errors.Is(err, sql.ErrNoRows)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_profiles
		   (user_id, first_name, last_name, bio, age, location, stance, profile_picture, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   first_name      = excluded.first_name,
		   last_name       = excluded.last_name,
		   bio             = excluded.bio,
		   age             = excluded.age,
		   location        = excluded.location,
		   stance          = excluded.stance,
		   profile_picture = excluded.profile_picture`,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.Bio,
		p.Age,
		p.Location,
		stanceArg(p.Stance),
		p.ProfilePicture,
		time.Now().UTC(),
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return false, apperror.NotFound("user", p.UserID)
		case isCheckViolation(err):
			return false, apperror.ValidationFailed("stance", "Stance must be 'goofy' or 'regular'")
		}
		return false, fmt.Errorf("sqlite: upserting profile for user %d: %w", p.UserID, err)
	}

	saved, err := scanProfile(tx.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, p.UserID,
	))
	if err != nil {
		return false, fmt.Errorf("sqlite: reading back profile for user %d: %w", p.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing profile upsert: %w", err)
	}

	*p = *saved
	return created, nil
}

// GetProfileByUserID returns apperror.ErrNotFound until the user saves a
// profile for the first time.
func (db *DB) GetProfileByUserID(ctx context.Context, userID int64) (*model.UserProfile, error) {
	p, err := scanProfile(db.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFoundMessage("Profile not found")
		}
		return nil, fmt.Errorf("sqlite: getting profile for user %d: %w", userID, err)
	}
	return p, nil
}

func scanProfile(row *sql.Row) (*model.UserProfile, error) {
	var (
		p      model.UserProfile
		stance sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&p.Age,
		&p.Location,
		&stance,
		&p.ProfilePicture,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if stance.Valid {
		s := model.Stance(stance.String)
		p.Stance = &s
	}
	return &p, nil
}

// stanceArg converts the optional stance into a driver value (nil → NULL).
func stanceArg(s *model.Stance) any {
	if s == nil {
		return nil
	}
	return string(*s)
}
