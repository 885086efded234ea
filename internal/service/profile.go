package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/skate-tracker/internal/apperror"
	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/repository"
)

// ProfileInput is the editable part of a profile. Blank strings are stored
// as NULL; a nil Age means "not given".
type ProfileInput struct {
	FirstName      string
	LastName       string
	Bio            string
	Age            *int
	Location       string
	Stance         string
	ProfilePicture string
}

type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Save creates the caller's profile or replaces every field of the existing
// one. created reports which of the two happened.
func (s *ProfileService) Save(ctx context.Context, userID int64, in ProfileInput) (*model.UserProfile, bool, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, false, apperror.ValidationFailed("first_name", "First name is required")
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > MaxAge) {
		return nil, false, apperror.ValidationFailed("age", fmt.Sprintf("Age must be between 0 and %d", MaxAge))
	}

	var stance *model.Stance
	if raw := strings.TrimSpace(in.Stance); raw != "" {
		st := model.Stance(strings.ToLower(raw))
		if !st.Valid() {
			return nil, false, apperror.ValidationFailed("stance", "Stance must be 'goofy' or 'regular'")
		}
		stance = &st
	}

	profile := &model.UserProfile{
		UserID:         userID,
		FirstName:      optional(in.FirstName),
		LastName:       optional(in.LastName),
		Bio:            optional(in.Bio),
		Age:            in.Age,
		Location:       optional(in.Location),
		Stance:         stance,
		ProfilePicture: optional(in.ProfilePicture),
	}

	created, err := s.profiles.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, false, fmt.Errorf("service/profile: saving profile for user %d: %w", userID, err)
	}

	s.logger.Info("profile saved",
		slog.Int64("userID", userID),
		slog.Bool("created", created),
	)
	return profile, created, nil
}

// Get returns apperror.ErrNotFound until the first Save.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.UserProfile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching profile for user %d: %w", userID, err)
	}
	return profile, nil
}
