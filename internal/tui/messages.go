package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/workout"
)

// Replies to page-scoped requests carry the visit they were issued in.

type catalogMsg struct{ catalog *workout.Catalog }

type loginMsg struct {
	visit int
	email string
	token *api.Token
	err   error
}

type registerMsg struct {
	visit int
	email string
	err   error
}

type resetMsg struct {
	visit int
	err   error
}

type statsMsg struct {
	visit int
	stats *api.DashboardStats
	err   error
}

type timeByTypeMsg struct {
	visit int
	rows  []api.TypeMinutes
	err   error
}

type meMsg struct {
	visit int
	user  *api.User
	err   error
}

type workoutsMsg struct {
	visit   int
	records []api.WorkoutRecord
	err     error
}

// Mutation replies are always applied: the composer and editor outlive
// the page that started them.

type createdMsg struct{ err error }

type updatedMsg struct {
	id  int
	err error
}

type deletedMsg struct {
	id  int
	err error
}

type noticeTickMsg struct{ seq int }

type sessionFileMsg struct{ removed bool }

func loadCatalogCmd(ctx context.Context, c workout.ExerciseFetcher) tea.Cmd {
	return func() tea.Msg {
		return catalogMsg{catalog: workout.LoadCatalog(ctx, c)}
	}
}

func loginCmd(ctx context.Context, visit int, c Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		tok, err := c.Login(ctx, email, password)
		return loginMsg{visit: visit, email: email, token: tok, err: err}
	}
}

func registerCmd(ctx context.Context, visit int, c Client, r api.Registration) tea.Cmd {
	return func() tea.Msg {
		return registerMsg{visit: visit, email: r.Email, err: c.Register(ctx, r)}
	}
}

func resetCmd(ctx context.Context, visit int, c Client, email string) tea.Cmd {
	return func() tea.Msg {
		return resetMsg{visit: visit, err: c.RequestPasswordReset(ctx, email)}
	}
}

func statsCmd(ctx context.Context, visit int, c Client) tea.Cmd {
	return func() tea.Msg {
		s, err := c.DashboardStats(ctx)
		return statsMsg{visit: visit, stats: s, err: err}
	}
}

func timeByTypeCmd(ctx context.Context, visit int, c Client) tea.Cmd {
	return func() tea.Msg {
		rows, err := c.TimeByType(ctx)
		return timeByTypeMsg{visit: visit, rows: rows, err: err}
	}
}

func meCmd(ctx context.Context, visit int, c Client) tea.Cmd {
	return func() tea.Msg {
		u, err := c.Me(ctx)
		return meMsg{visit: visit, user: u, err: err}
	}
}

func workoutsCmd(ctx context.Context, visit int, c Client) tea.Cmd {
	return func() tea.Msg {
		recs, err := c.Workouts(ctx)
		return workoutsMsg{visit: visit, records: recs, err: err}
	}
}

func createCmd(ctx context.Context, c Client, p api.WorkoutPayload) tea.Cmd {
	return func() tea.Msg {
		_, err := c.CreateWorkout(ctx, p)
		return createdMsg{err: err}
	}
}

func updateCmd(ctx context.Context, c Client, id int, p api.WorkoutPayload) tea.Cmd {
	return func() tea.Msg {
		_, err := c.UpdateWorkout(ctx, id, p)
		return updatedMsg{id: id, err: err}
	}
}

func deleteCmd(ctx context.Context, c Client, id int) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: c.DeleteWorkout(ctx, id)}
	}
}
