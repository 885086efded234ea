package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/auth"
	"github.com/sakif/skate-tracker/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory implementation of every repository interface
// the services use. A hand-written fake keeps the rules it simulates in
// plain sight (unique email, unique (user, trick) pair, FK to the catalog).
type fakeStore struct {
	users      map[int64]*model.User
	profiles   map[int64]*model.UserProfile // keyed by user id
	tricks     []model.Trick
	userTricks []model.UserTrick
	challenges []model.Challenge
	nextID     int64

	// set to simulate a database failure
	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*model.User),
		profiles: make(map[int64]*model.UserProfile),
		nextID:   1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.ConflictMessage("Username or email already exists")
		}
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFoundMessage("user not found")
}

func (f *fakeStore) UpsertProfile(ctx context.Context, p *model.UserProfile) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	existing, ok := f.profiles[p.UserID]
	if ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = f.id()
		p.CreatedAt = time.Now()
	}
	copied := *p
	f.profiles[p.UserID] = &copied
	return !ok, nil
}

func (f *fakeStore) GetProfileByUserID(ctx context.Context, userID int64) (*model.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperror.NotFoundMessage("Profile not found")
	}
	return p, nil
}

func (f *fakeStore) ListTricks(ctx context.Context) ([]model.Trick, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Trick{}, f.tricks...), nil
}

func (f *fakeStore) CreateTrick(ctx context.Context, t *model.Trick) error {
	t.ID = f.id()
	f.tricks = append(f.tricks, *t)
	return nil
}

func (f *fakeStore) trick(id int64) (model.Trick, bool) {
	for _, t := range f.tricks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Trick{}, false
}

func (f *fakeStore) AddUserTrick(ctx context.Context, userID, trickID int64) (*model.UserTrick, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.trick(trickID); !ok {
		return nil, apperror.NotFound("trick", trickID)
	}
	for _, ut := range f.userTricks {
		if ut.UserID == userID && ut.TrickID == trickID {
			return nil, apperror.ConflictMessage("Trick already added")
		}
	}
	ut := model.UserTrick{
		ID:      f.id(),
		UserID:  userID,
		TrickID: trickID,
		Status:  model.StatusLearning,
		AddedAt: time.Now(),
	}
	f.userTricks = append(f.userTricks, ut)
	return &ut, nil
}

func (f *fakeStore) ListUserTricks(ctx context.Context, userID int64) ([]model.UserTrickDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.UserTrickDetail{}
	for _, ut := range f.userTricks {
		if ut.UserID != userID {
			continue
		}
		t, _ := f.trick(ut.TrickID)
		out = append(out, model.UserTrickDetail{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Difficulty:  t.Difficulty,
			Status:      ut.Status,
		})
	}
	return out, nil
}

func (f *fakeStore) UpdateUserTrickStatus(ctx context.Context, userID, trickID int64, status model.TrickStatus) (*model.UserTrick, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.userTricks {
		if f.userTricks[i].UserID == userID && f.userTricks[i].TrickID == trickID {
			f.userTricks[i].Status = status
			ut := f.userTricks[i]
			return &ut, nil
		}
	}
	return nil, apperror.NotFoundMessage("Trick not found for this user")
}

func (f *fakeStore) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Challenge{}, f.challenges...), nil
}

func (f *fakeStore) CreateChallenge(ctx context.Context, c *model.Challenge) error {
	c.ID = f.id()
	f.challenges = append(f.challenges, *c)
	return nil
}

// seedTricks adds catalog tricks and returns them with ids assigned.
func (f *fakeStore) seedTricks(t *testing.T, names ...string) []model.Trick {
	t.Helper()
	var out []model.Trick
	for _, n := range names {
		tr := model.Trick{Name: n, Difficulty: "Easy"}
		if err := f.CreateTrick(context.Background(), &tr); err != nil {
			t.Fatalf("seeding trick %q: %v", n, err)
		}
		out = append(out, tr)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuthService returns an AuthService wired with fake dependencies.
func newTestAuthService(t *testing.T, store *fakeStore) (*AuthService, *auth.TokenService) {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// Cost 4 is the bcrypt minimum, which keeps tests fast.
	ps := auth.NewPasswordServiceWithCost(4)

	return NewAuthService(store, ts, ps, testLogger()), ts
}
