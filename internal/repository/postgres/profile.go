package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

const profileColumns = `id, user_id, first_name, last_name, bio, age, location, stance, profile_picture, created_at`

// UpsertProfile inserts or fully replaces the user's profile in one statement.
//
// xmax is 0 on a freshly inserted tuple and non-zero on one written by
// ON CONFLICT DO UPDATE, which is how created is reported without a second
// round trip.
func (db *DB) UpsertProfile(ctx context.Context, p *model.UserProfile) (bool, error) {
	var (
		saved   model.UserProfile
		stance  *string
		created bool
	)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO user_profiles
		   (user_id, first_name, last_name, bio, age, location, stance, profile_picture)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO UPDATE SET
		   first_name      = EXCLUDED.first_name,
		   last_name       = EXCLUDED.last_name,
		   bio             = EXCLUDED.bio,
		   age             = EXCLUDED.age,
		   location        = EXCLUDED.location,
		   stance          = EXCLUDED.stance,
		   profile_picture = EXCLUDED.profile_picture
		 RETURNING `+profileColumns+`, (xmax = 0)`,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.Bio,
		p.Age,
		p.Location,
		stanceArg(p.Stance),
		p.ProfilePicture,
	).Scan(
		&saved.ID,
		&saved.UserID,
		&saved.FirstName,
		&saved.LastName,
		&saved.Bio,
		&saved.Age,
		&saved.Location,
		&stance,
		&saved.ProfilePicture,
		&saved.CreatedAt,
		&created,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return false, apperror.NotFound("user", p.UserID)
		case isCheckViolation(err):
			return false, apperror.ValidationFailed("stance", "Stance must be 'goofy' or 'regular'")
		}
		return false, fmt.Errorf("postgres: upserting profile for user %d: %w", p.UserID, err)
	}

	saved.Stance = stanceFrom(stance)
	*p = saved
	return created, nil
}

func (db *DB) GetProfileByUserID(ctx context.Context, userID int64) (*model.UserProfile, error) {
	var (
		p      model.UserProfile
		stance *string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFoundMessage("Profile not found")
		}
		return nil, fmt.Errorf("postgres: getting profile for user %d: %w", userID, err)
	}
	p.Stance = stanceFrom(stance)
	return &p, nil
}

func stanceArg(s *model.Stance) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func stanceFrom(s *string) *model.Stance {
	if s == nil {
		return nil
	}
	v := model.Stance(*s)
	return &v
}
