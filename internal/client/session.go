package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/progress"
)

// State is where a Session is in its lifecycle:
//
//	anonymous ──Login/Restore──▶ authenticated ──Logout──▶ anonymous
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// ErrNotLoggedIn is returned by operations that need a token.
var ErrNotLoggedIn = errors.New("not logged in")

// Session holds the signed-in user's token, account summary, tricks and the
// challenge catalog. The token is persisted through a TokenStore so a new
// process can Restore it.
//
// A Session is not safe for concurrent use.
type Session struct {
	api    *Client
	tokens TokenStore

	state      State
	token      string
	user       model.UserSummary
	tricks     []model.UserTrickDetail
	challenges []model.Challenge
}

func NewSession(api *Client, tokens TokenStore) *Session {
	return &Session{api: api, tokens: tokens}
}

func (s *Session) State() State                    { return s.state }
func (s *Session) Token() string                   { return s.token }
func (s *Session) User() model.UserSummary         { return s.user }
func (s *Session) Tricks() []model.UserTrickDetail { return s.tricks }
func (s *Session) Challenges() []model.Challenge   { return s.challenges }

// Restore rehydrates the session from the persisted token. A token the server
// no longer accepts is cleared and the session stays anonymous.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.token = token
	if err := s.Refresh(ctx); err != nil {
		if IsStatus(err, http.StatusForbidden) {
			return s.Logout()
		}
		s.reset()
		return err
	}
	return nil
}

// Login authenticates, persists the token and loads the user's data. If the
// data cannot be loaded the token is dropped again, so the session is either
// fully authenticated or anonymous with nothing on disk.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.tokens.Save(res.Token); err != nil {
		return err
	}
	s.token = res.Token
	if err := s.Refresh(ctx); err != nil {
		return errors.Join(err, s.Logout())
	}
	return nil
}

// Logout forgets the token locally and on disk.
func (s *Session) Logout() error {
	s.reset()
	return s.tokens.Clear()
}

// Refresh reloads the account summary, the user's tricks and the challenge
// catalog. The server answers 404 for "no tricks yet" and "no challenges";
// both are treated as empty lists here.
func (s *Session) Refresh(ctx context.Context) error {
	if s.token == "" {
		return ErrNotLoggedIn
	}

	profile, err := s.api.Profile(ctx, s.token)
	if err != nil {
		return err
	}

	tricks, err := s.api.MyTricks(ctx, s.token)
	if err != nil && !IsStatus(err, http.StatusNotFound) {
		return err
	}

	challenges, err := s.api.Challenges(ctx)
	if err != nil && !IsStatus(err, http.StatusNotFound) {
		return err
	}

	s.state = Authenticated
	s.user = profile.User
	s.tricks = tricks
	s.challenges = challenges
	return nil
}

// AddTrick starts tracking a catalog trick and refreshes the trick list.
func (s *Session) AddTrick(ctx context.Context, trickID int64) error {
	if s.state != Authenticated {
		return ErrNotLoggedIn
	}
	if _, err := s.api.AddTrick(ctx, s.token, trickID); err != nil {
		return err
	}
	return s.reloadTricks(ctx)
}

// Master marks a trick mastered and refreshes the trick list.
func (s *Session) Master(ctx context.Context, trickID int64) error {
	if s.state != Authenticated {
		return ErrNotLoggedIn
	}
	if _, err := s.api.UpdateTrickStatus(ctx, s.token, trickID, model.StatusMastered); err != nil {
		return err
	}
	return s.reloadTricks(ctx)
}

// SaveProfile creates or replaces the extended profile.
func (s *Session) SaveProfile(ctx context.Context, p ProfileUpdate) (*SaveProfileResult, error) {
	if s.state != Authenticated {
		return nil, ErrNotLoggedIn
	}
	return s.api.SaveProfile(ctx, s.token, p)
}

// UserProfile fetches the extended profile.
func (s *Session) UserProfile(ctx context.Context) (*model.UserProfile, error) {
	if s.state != Authenticated {
		return nil, ErrNotLoggedIn
	}
	return s.api.UserProfile(ctx, s.token)
}

// Progress evaluates the loaded challenges against the loaded tricks. It
// does no I/O; call Refresh first for fresh numbers.
func (s *Session) Progress() progress.Summary {
	return progress.Summarize(s.tricks, s.challenges)
}

func (s *Session) reloadTricks(ctx context.Context) error {
	tricks, err := s.api.MyTricks(ctx, s.token)
	if err != nil && !IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("reloading tricks: %w", err)
	}
	s.tricks = tricks
	return nil
}

func (s *Session) reset() {
	s.state = Anonymous
	s.token = ""
	s.user = model.UserSummary{}
	s.tricks = nil
	s.challenges = nil
}
