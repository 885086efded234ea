package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/service"
)

type TrickHandler struct {
	tricks *service.TrickService
	logger *slog.Logger
}

func NewTrickHandler(tricks *service.TrickService, logger *slog.Logger) *TrickHandler {
	return &TrickHandler{tricks: tricks, logger: logger}
}

type tricksResponse struct {
	Tricks any `json:"tricks"`
}

// HandleTricks lists the catalog. HTTP: GET /tricks → 200 {"tricks"}
func (h *TrickHandler) HandleTricks(w http.ResponseWriter, r *http.Request) {
	tricks, err := h.tricks.Catalog(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tricksResponse{Tricks: tricks})
}

type addTrickRequest struct {
	TrickID looseInt `json:"trick_id"`
}

type addTrickResponse struct {
	Message string           `json:"message"`
	Trick   *model.UserTrick `json:"trick"`
}

// HandleAddTrick starts tracking a catalog trick for the caller.
//
// HTTP: POST /addTrick (bearer) {"trick_id"} → 201 {"message", "trick"}
func (h *TrickHandler) HandleAddTrick(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	req := addTrickRequest{TrickID: looseInt{field: "trick_id"}}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ut, err := h.tricks.Add(r.Context(), id, req.TrickID.Int64())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, addTrickResponse{
		Message: "Trick added successfully",
		Trick:   ut,
	})
}

// HandleMyTricks lists the caller's tricks with status.
//
// HTTP: GET /myTricks (bearer) → 200 {"tricks"} / 404 when none
func (h *TrickHandler) HandleMyTricks(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	tricks, err := h.tricks.Mine(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tricksResponse{Tricks: tricks})
}

type updateStatusRequest struct {
	TrickID looseInt `json:"trick_id"`
	Status  string   `json:"status"`
}

type updateStatusResponse struct {
	Message      string           `json:"message"`
	UpdatedTrick *model.UserTrick `json:"updatedTrick"`
}

// HandleUpdateTrickStatus marks one of the caller's tricks mastered.
//
// HTTP: PUT /updateTrickStatus (bearer) {"trick_id", "status": "mastered"}
func (h *TrickHandler) HandleUpdateTrickStatus(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	req := updateStatusRequest{TrickID: looseInt{field: "trick_id"}}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ut, err := h.tricks.UpdateStatus(r.Context(), id, req.TrickID.Int64(), req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updateStatusResponse{
		Message:      "Trick status updated successfully",
		UpdatedTrick: ut,
	})
}
