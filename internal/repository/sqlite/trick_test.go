package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

func createTestTrick(t *testing.T, db *DB, name, difficulty string) *model.Trick {
	t.Helper()
	trick := &model.Trick{Name: name, Difficulty: difficulty, Description: name + " description"}
	require.NoError(t, db.CreateTrick(context.Background(), trick))
	return trick
}

func TestListTricks_Empty(t *testing.T) {
	db := newTestDB(t)

	tricks, err := db.ListTricks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tricks)
	assert.Empty(t, tricks)
}

func TestCreateTrick_ListInOrder(t *testing.T) {
	db := newTestDB(t)
	createTestTrick(t, db, "Ollie", "Easy")
	createTestTrick(t, db, "Kickflip", "Medium")

	tricks, err := db.ListTricks(context.Background())
	require.NoError(t, err)
	require.Len(t, tricks, 2)
	assert.Equal(t, "Ollie", tricks[0].Name)
	assert.Equal(t, "Kickflip", tricks[1].Name)
	assert.Equal(t, "Medium", tricks[1].Difficulty)
}

func TestCreateTrick_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	createTestTrick(t, db, "Ollie", "Easy")

	err := db.CreateTrick(context.Background(), &model.Trick{Name: "Ollie"})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "error = %v", err)
}

func TestAddUserTrick(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skater")
	trick := createTestTrick(t, db, "Ollie", "Easy")

	ut, err := db.AddUserTrick(context.Background(), user.ID, trick.ID)
	require.NoError(t, err)

	assert.NotZero(t, ut.ID)
	assert.Equal(t, model.StatusLearning, ut.Status)
	assert.False(t, ut.AddedAt.IsZero())
}

func TestAddUserTrick_DuplicateLeavesOneRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skater")
	trick := createTestTrick(t, db, "Ollie", "Easy")
	ctx := context.Background()

	_, err := db.AddUserTrick(ctx, user.ID, trick.ID)
	require.NoError(t, err)

	_, err = db.AddUserTrick(ctx, user.ID, trick.ID)
	assert.True(t, errors.Is(err, apperror.ErrConflict), "error = %v", err)

	mine, err := db.ListUserTricks(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestAddUserTrick_UnknownTrick(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skater")

	_, err := db.AddUserTrick(context.Background(), user.ID, 12345)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v", err)
}

func TestListUserTricks_OnlyCallersTricks(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	ollie := createTestTrick(t, db, "Ollie", "Easy")
	shuv := createTestTrick(t, db, "Pop Shove-it", "Easy")
	ctx := context.Background()

	_, err := db.AddUserTrick(ctx, alice.ID, ollie.ID)
	require.NoError(t, err)
	_, err = db.AddUserTrick(ctx, bob.ID, shuv.ID)
	require.NoError(t, err)

	mine, err := db.ListUserTricks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ollie.ID, mine[0].ID)
	assert.Equal(t, "Ollie", mine[0].Name)
	assert.Equal(t, model.StatusLearning, mine[0].Status)
}

func TestUpdateUserTrickStatus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skater")
	trick := createTestTrick(t, db, "Ollie", "Easy")
	ctx := context.Background()

	added, err := db.AddUserTrick(ctx, user.ID, trick.ID)
	require.NoError(t, err)

	updated, err := db.UpdateUserTrickStatus(ctx, user.ID, trick.ID, model.StatusMastered)
	require.NoError(t, err)
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, model.StatusMastered, updated.Status)

	mine, err := db.ListUserTricks(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMastered, mine[0].Status)
}

func TestUpdateUserTrickStatus_NotAdded(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "skater")
	trick := createTestTrick(t, db, "Ollie", "Easy")

	_, err := db.UpdateUserTrickStatus(context.Background(), user.ID, trick.ID, model.StatusMastered)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v", err)
}
