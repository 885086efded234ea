package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/skate-tracker/internal/service"
)

// AuthHandler serves signup, login and the caller's account summary.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type addUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}

// HandleAddUser creates an account.
//
// HTTP: POST /addUser → 201 {"message", "user"}
// The password hash never leaves the server (model.User tags it json:"-").
func (h *AuthHandler) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		Message: "User added successfully",
		User:    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// HandleLogin exchanges credentials for a bearer token.
//
// HTTP: POST /login → 200 {"message", "token"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// HandleProfile returns the caller's username and email.
//
// HTTP: GET /profile (bearer) → 200 {"message", "user": {"username", "email"}}
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	summary, err := h.auth.Profile(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Message: "Profile fetched successfully",
		User:    summary,
	})
}
