// Package report renders workout history and dashboard data for the CLI.
package report

import (
	"time"

	"github.com/fakeyudi/fitflex/internal/api"
)

// History is a user's workout list as printed by `workout list`.
type History struct {
	Username    string              `json:"username,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Workouts    []api.WorkoutRecord `json:"workouts"`
}

// Dashboard is the aggregate view printed by `dashboard`.
type Dashboard struct {
	Username    string              `json:"username,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Stats       *api.DashboardStats `json:"stats,omitempty"`
	TimeByType  []api.TypeMinutes   `json:"time_by_type"`
}
