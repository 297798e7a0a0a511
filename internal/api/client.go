// Package api is the HTTP client for the FitFlex REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() string
}

// Client calls the FitFlex REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a Client targeting baseURL. tokens may be nil when only
// unauthenticated endpoints are used.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded from
// a non-empty 2xx body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	entry := log.WithFields(log.Fields{"method": method, "path": path, "request_id": requestID})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read body: %w", err)
	}
	entry.WithFields(log.Fields{"status": resp.StatusCode, "took": time.Since(start)}).Debug("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, path, resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

func workoutPath(id int) string {
	return "/workouts/" + strconv.Itoa(id)
}

// Exercises fetches the exercise catalog. No token is sent.
func (c *Client) Exercises(ctx context.Context) ([]Exercise, error) {
	var out []Exercise
	if err := c.do(ctx, http.MethodGet, "/exercises", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWorkout stores a new workout for the logged-in user.
func (c *Client) CreateWorkout(ctx context.Context, p WorkoutPayload) (*WorkoutRecord, error) {
	var out WorkoutRecord
	if err := c.do(ctx, http.MethodPost, "/workouts", true, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Workouts lists the logged-in user's workouts.
func (c *Client) Workouts(ctx context.Context) ([]WorkoutRecord, error) {
	var out []WorkoutRecord
	if err := c.do(ctx, http.MethodGet, "/workouts", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateWorkout replaces workout id. The server may answer with an empty
// body, in which case the returned record is nil.
func (c *Client) UpdateWorkout(ctx context.Context, id int, p WorkoutPayload) (*WorkoutRecord, error) {
	var out *WorkoutRecord
	if err := c.do(ctx, http.MethodPut, workoutPath(id), true, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWorkout removes workout id.
func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, workoutPath(id), true, nil, nil)
}

// DashboardStats fetches the aggregate counters.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TimeByType fetches minutes trained per exercise type.
func (c *Client) TimeByType(ctx context.Context) ([]TypeMinutes, error) {
	var out []TypeMinutes
	if err := c.do(ctx, http.MethodGet, "/dashboard/time-by-type", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	in := map[string]string{"email": email, "password": password}
	var out Token
	if err := c.do(ctx, http.MethodPost, "/login", false, in, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("api: login response carried no token")
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, r Registration) error {
	return c.do(ctx, http.MethodPost, "/register", false, r, nil)
}

// RequestPasswordReset asks the server to mail reset instructions.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/reset-password-request", false, map[string]string{"email": email}, nil)
}

// Me fetches the logged-in user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/me", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
