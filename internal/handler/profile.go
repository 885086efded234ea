package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/service"
)

// ProfileHandler serves the extended profile (name, age, bio, stance...).
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

type saveProfileRequest struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Bio            string   `json:"bio"`
	Age            looseInt `json:"age"`
	Location       string   `json:"location"`
	Stance         string   `json:"stance"`
	ProfilePicture string   `json:"profile_picture"`
}

type profileResponse struct {
	Message string             `json:"message,omitempty"`
	Profile *model.UserProfile `json:"profile"`
}

// HandleSaveProfile creates or replaces the caller's profile.
//
// HTTP: POST /profile (bearer) → 201 when created, 200 when updated.
func (h *ProfileHandler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	req := saveProfileRequest{Age: looseInt{field: "age"}}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, created, err := h.profiles.Save(r.Context(), id, service.ProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		Age:            req.Age.Int(),
		Location:       req.Location,
		Stance:         req.Stance,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if created {
		writeJSON(w, http.StatusCreated, profileResponse{
			Message: "Profile created successfully",
			Profile: profile,
		})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Message: "Profile updated successfully",
		Profile: profile,
	})
}

// HandleUserProfile returns the caller's extended profile.
//
// HTTP: GET /userProfile (bearer) → 200 {"profile"} / 404 before first save.
func (h *ProfileHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}
