// Package client is a typed Go client for the skate tracker REST API.
//
// Every endpoint has its own result type instead of a shared "any JSON"
// shape, so callers (cmd/skatectl, tests) get compile-time field names.
// Errors from the server come back as *APIError carrying the status code and
// the server's "error" message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/progress"
)

const DefaultBaseURL = "http://localhost:5001"

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =========================================================================
// RESULT TYPES
// =========================================================================

type SignupResult struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ProfileResult struct {
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

type SaveProfileResult struct {
	Message string            `json:"message"`
	Profile model.UserProfile `json:"profile"`
	Created bool              `json:"-"`
}

type AddTrickResult struct {
	Message string          `json:"message"`
	Trick   model.UserTrick `json:"trick"`
}

type UpdateTrickStatusResult struct {
	Message      string          `json:"message"`
	UpdatedTrick model.UserTrick `json:"updatedTrick"`
}

// ProfileUpdate is the body of POST /profile. Age is sent as a number when
// set and omitted otherwise.
type ProfileUpdate struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Location       string `json:"location,omitempty"`
	Stance         string `json:"stance,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// =========================================================================
// ENDPOINTS
// =========================================================================

func (c *Client) Signup(ctx context.Context, username, email, password string) (*SignupResult, error) {
	var out SignupResult
	body := map[string]string{"username": username, "email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/addUser", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*ProfileResult, error) {
	var out ProfileResult
	if _, err := c.do(ctx, http.MethodGet, "/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveProfile(ctx context.Context, token string, p ProfileUpdate) (*SaveProfileResult, error) {
	var out SaveProfileResult
	status, err := c.do(ctx, http.MethodPost, "/profile", token, p, &out)
	if err != nil {
		return nil, err
	}
	out.Created = status == http.StatusCreated
	return &out, nil
}

func (c *Client) UserProfile(ctx context.Context, token string) (*model.UserProfile, error) {
	var out struct {
		Profile model.UserProfile `json:"profile"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/userProfile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Profile, nil
}

func (c *Client) Tricks(ctx context.Context) ([]model.Trick, error) {
	var out struct {
		Tricks []model.Trick `json:"tricks"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/tricks", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Tricks, nil
}

func (c *Client) AddTrick(ctx context.Context, token string, trickID int64) (*AddTrickResult, error) {
	var out AddTrickResult
	body := map[string]int64{"trick_id": trickID}
	if _, err := c.do(ctx, http.MethodPost, "/addTrick", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyTricks(ctx context.Context, token string) ([]model.UserTrickDetail, error) {
	var out struct {
		Tricks []model.UserTrickDetail `json:"tricks"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/myTricks", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Tricks, nil
}

func (c *Client) UpdateTrickStatus(ctx context.Context, token string, trickID int64, status model.TrickStatus) (*UpdateTrickStatusResult, error) {
	var out UpdateTrickStatusResult
	body := map[string]any{"trick_id": trickID, "status": status}
	if _, err := c.do(ctx, http.MethodPut, "/updateTrickStatus", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Challenges(ctx context.Context) ([]model.Challenge, error) {
	var out struct {
		Challenges []model.Challenge `json:"challenges"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/challenges", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Challenges, nil
}

func (c *Client) MyProgress(ctx context.Context, token string) (*progress.Summary, error) {
	var out struct {
		Progress progress.Summary `json:"progress"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/myProgress", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Progress, nil
}

// do sends one request and decodes a 2xx body into out. The status code is
// returned so callers can tell 200 from 201.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("client: encoding %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("client: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message, apiErr.Code = payload.Error, payload.Code
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("client: decoding %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
