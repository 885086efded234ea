package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skate-tracker/internal/progress"
	"github.com/sakif/skate-tracker/internal/service"
)

type ChallengeHandler struct {
	challenges *service.ChallengeService
	logger     *slog.Logger
}

func NewChallengeHandler(challenges *service.ChallengeService, logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges, logger: logger}
}

type challengesResponse struct {
	Challenges any `json:"challenges"`
}

// HandleChallenges lists every challenge. HTTP: GET /challenges
func (h *ChallengeHandler) HandleChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challenges.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, challengesResponse{Challenges: challenges})
}

type progressResponse struct {
	Progress progress.Summary `json:"progress"`
}

// HandleMyProgress reports the caller's challenge progress and points.
// Read-only: nothing is recorded in user_rewards.
//
// HTTP: GET /myProgress (bearer) → 200 {"progress"}
func (h *ChallengeHandler) HandleMyProgress(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	summary, err := h.challenges.Progress(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{Progress: summary})
}
