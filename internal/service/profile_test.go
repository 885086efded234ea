package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
)

func intPtr(i int) *int { return &i }

func TestProfileSave_CreateThenUpdate(t *testing.T) {
	store := newFakeStore()
	svc := NewProfileService(store, testLogger())
	ctx := context.Background()

	p, created, err := svc.Save(ctx, 7, ProfileInput{
		FirstName: "Leticia",
		LastName:  "Bufoni",
		Age:       intPtr(31),
		Stance:    "Regular",
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, p.Stance)
	assert.Equal(t, model.StanceRegular, *p.Stance, "stance is normalised to lower case")
	assert.Nil(t, p.Bio, "blank optional fields are stored as NULL")

	p, created, err = svc.Save(ctx, 7, ProfileInput{FirstName: "Leti", Bio: "Street."})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Leti", *p.FirstName)

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Street.", *got.Bio)
}

func TestProfileSave_Validation(t *testing.T) {
	svc := NewProfileService(newFakeStore(), testLogger())

	tests := []struct {
		name      string
		in        ProfileInput
		wantField string
	}{
		{"missing first name", ProfileInput{LastName: "X"}, "first_name"},
		{"negative age", ProfileInput{FirstName: "A", Age: intPtr(-1)}, "age"},
		{"huge age", ProfileInput{FirstName: "A", Age: intPtr(1_000_000_000)}, "age"},
		{"age over limit", ProfileInput{FirstName: "A", Age: intPtr(MaxAge + 1)}, "age"},
		{"unknown stance", ProfileInput{FirstName: "A", Stance: "mongo"}, "stance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Save(context.Background(), 1, tt.in)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr), "error = %v", err)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestProfileGet_NotFound(t *testing.T) {
	svc := NewProfileService(newFakeStore(), testLogger())

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProfileSave_AgeBounds(t *testing.T) {
	svc := NewProfileService(newFakeStore(), testLogger())

	for _, age := range []int{0, MaxAge} {
		p, _, err := svc.Save(context.Background(), 1, ProfileInput{FirstName: "A", Age: intPtr(age)})
		require.NoError(t, err, "age %d", age)
		assert.Equal(t, age, *p.Age)
	}
}
