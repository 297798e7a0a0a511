package session

import "time"

// Session is the persisted login state: the bearer token plus the few user
// fields the client shows without asking the API.
type Session struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// Reason explains why a session stopped being usable.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonExpired      Reason = "expired"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonExternal     Reason = "removed by another process"
)
