package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

// =========================================================================
// CONSTRAINT MAPPING (no database needed)
// =========================================================================

func TestConstraintCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		unique bool
		fk     bool
		check  bool
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, true, false, false},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false, true, false},
		{"check", &pgconn.PgError{Code: "23514"}, false, false, true},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true, false, false},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, false, false, false},
		{"plain error", errors.New("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.fk, isForeignKeyViolation(tt.err))
			assert.Equal(t, tt.check, isCheckViolation(tt.err))
		})
	}
}

func TestStanceConversion(t *testing.T) {
	assert.Nil(t, stanceArg(nil))
	assert.Nil(t, stanceFrom(nil))

	goofy := model.StanceGoofy
	arg := stanceArg(&goofy)
	require.NotNil(t, arg)
	assert.Equal(t, "goofy", *arg)
	assert.Equal(t, model.StanceGoofy, *stanceFrom(arg))
}

// =========================================================================
// INTEGRATION (SKATE_TEST_DATABASE_URL)
// =========================================================================

// newTestDB connects to the database named by SKATE_TEST_DATABASE_URL or
// skips. Tests share the database, so every row they create carries a
// unique suffix.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("SKATE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SKATE_TEST_DATABASE_URL not set")
	}
	db, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func uniq(prefix string) string { return prefix + "-" + xid.New().String() }

func TestIntegration_UserLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	name := uniq("user")
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := db.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = db.CreateUser(ctx, &model.User{Username: name, Email: uniq("e") + "@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "error = %v", err)

	_, err = db.GetUserByID(ctx, -1)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v", err)
}

func TestIntegration_ProfileUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	name := uniq("profile")
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(ctx, u))

	first := "Kyle"
	created, err := db.UpsertProfile(ctx, &model.UserProfile{UserID: u.ID, FirstName: &first})
	require.NoError(t, err)
	assert.True(t, created)

	regular := model.StanceRegular
	p := &model.UserProfile{UserID: u.ID, FirstName: &first, Stance: &regular}
	created, err = db.UpsertProfile(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, p.Stance)
	assert.Equal(t, model.StanceRegular, *p.Stance)

	bad := model.Stance("mongo")
	_, err = db.UpsertProfile(ctx, &model.UserProfile{UserID: u.ID, Stance: &bad})
	assert.True(t, errors.Is(err, apperror.ErrValidation), "error = %v", err)
}

func TestIntegration_UserTricks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	name := uniq("tricks")
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(ctx, u))

	trick := &model.Trick{Name: uniq("Ollie"), Difficulty: "Easy"}
	require.NoError(t, db.CreateTrick(ctx, trick))

	_, err := db.AddUserTrick(ctx, u.ID, trick.ID)
	require.NoError(t, err)

	_, err = db.AddUserTrick(ctx, u.ID, trick.ID)
	assert.True(t, errors.Is(err, apperror.ErrConflict), "error = %v", err)

	_, err = db.AddUserTrick(ctx, u.ID, -1)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v", err)

	updated, err := db.UpdateUserTrickStatus(ctx, u.ID, trick.ID, model.StatusMastered)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMastered, updated.Status)

	mine, err := db.ListUserTricks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.StatusMastered, mine[0].Status)
}
