// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in the postgres and sqlite subpackages.
//
// Every implementation translates driver errors into apperror values:
// no rows → ErrNotFound, unique violation → ErrConflict,
// foreign-key violation → ErrNotFound, check violation → ErrValidation.
package repository

import (
	"context"

	"github.com/sakif/skate-tracker/internal/model"
)

type UserRepository interface {
	// CreateUser inserts the user and fills in ID and CreatedAt.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type ProfileRepository interface {
	// UpsertProfile inserts or replaces the profile keyed by profile.UserID.
	// created reports whether a new row was inserted.
	UpsertProfile(ctx context.Context, profile *model.UserProfile) (created bool, err error)
	GetProfileByUserID(ctx context.Context, userID int64) (*model.UserProfile, error)
}

type TrickRepository interface {
	ListTricks(ctx context.Context) ([]model.Trick, error)
	CreateTrick(ctx context.Context, trick *model.Trick) error

	// AddUserTrick links a user to a catalog trick with status learning.
	AddUserTrick(ctx context.Context, userID, trickID int64) (*model.UserTrick, error)
	ListUserTricks(ctx context.Context, userID int64) ([]model.UserTrickDetail, error)
	UpdateUserTrickStatus(ctx context.Context, userID, trickID int64, status model.TrickStatus) (*model.UserTrick, error)
}

type ChallengeRepository interface {
	ListChallenges(ctx context.Context) ([]model.Challenge, error)
	CreateChallenge(ctx context.Context, challenge *model.Challenge) error
}

// Store is everything the server needs from a database backend.
type Store interface {
	UserRepository
	ProfileRepository
	TrickRepository
	ChallengeRepository

	Ping(ctx context.Context) error
	Close() error
}
