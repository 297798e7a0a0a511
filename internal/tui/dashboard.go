package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/fakeyudi/fitflex/internal/api"
)

type dashboardView struct {
	loading  bool
	stats    *api.DashboardStats
	statsErr error
	rows     []api.TypeMinutes
	rowsErr  error
}

func (m *Model) updateDashboard(msg tea.Msg) {
	d := &m.dash
	switch msg := msg.(type) {
	case statsMsg:
		if m.stale(msg.visit) {
			return
		}
		d.loading = false
		d.stats, d.statsErr = msg.stats, msg.err
		if msg.err != nil {
			log.WithError(msg.err).Warn("failed to load dashboard stats")
		}
	case timeByTypeMsg:
		if m.stale(msg.visit) {
			return
		}
		d.rows, d.rowsErr = msg.rows, msg.err
		if msg.err != nil {
			log.WithError(msg.err).Warn("failed to load time by type")
		}
	}
}

func (d *dashboardView) render(width int) string {
	var sb strings.Builder
	sb.WriteString(heading("Summary"))
	switch {
	case d.statsErr != nil:
		sb.WriteString(dimStyle.Render("  (statistics unavailable: "+api.DetailOf(d.statsErr)+")") + "\n")
	case d.stats == nil:
		sb.WriteString(dimStyle.Render("  Loading…") + "\n")
	default:
		row(&sb, "Workouts:", strconv.Itoa(d.stats.TotalWorkouts))
		row(&sb, "Total time:", fmt.Sprintf("%d min", d.stats.TotalDuration))
		row(&sb, "Average:", fmt.Sprintf("%.1f min", d.stats.AverageDuration))
		row(&sb, "This week:", strconv.Itoa(d.stats.WorkoutsThisWeek))
	}

	sb.WriteString(heading("Time by Type"))
	switch {
	case d.rowsErr != nil:
		sb.WriteString(dimStyle.Render("  (unavailable: "+api.DetailOf(d.rowsErr)+")") + "\n")
	case d.rows == nil && d.loading:
		sb.WriteString(dimStyle.Render("  Loading…") + "\n")
	case len(d.rows) == 0:
		sb.WriteString(dimStyle.Render("  (no exercise time recorded yet)") + "\n")
	default:
		sb.WriteString(timeChart(d.rows, width))
	}
	return sb.String()
}

// timeChart draws one horizontal bar per type, scaled to the largest.
func timeChart(rows []api.TypeMinutes, width int) string {
	peak, label := 0, 0
	for _, r := range rows {
		peak = max(peak, r.Minutes)
		label = max(label, len(r.Type))
	}
	barMax := max(width-label-20, 10)

	var sb strings.Builder
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = r.Minutes * barMax / peak
		}
		if r.Minutes > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&sb, "  %-*s  %s %s\n", label, r.Type, barStyle.Render(strings.Repeat("█", n)), dimStyle.Render(fmt.Sprintf("%d min", r.Minutes)))
	}
	return sb.String()
}

type profileView struct {
	loading bool
	user    *api.User
	err     error
}

func (m *Model) updateProfile(msg tea.Msg) {
	if msg, ok := msg.(meMsg); ok {
		if m.stale(msg.visit) {
			return
		}
		m.profile.loading = false
		m.profile.user, m.profile.err = msg.user, msg.err
		if msg.err != nil {
			log.WithError(msg.err).Warn("failed to load profile")
		}
	}
}

func (p *profileView) render() string {
	var sb strings.Builder
	sb.WriteString(heading("Your Profile"))
	switch {
	case p.err != nil:
		sb.WriteString(dimStyle.Render("  (profile unavailable: "+api.DetailOf(p.err)+")") + "\n")
	case p.user == nil:
		sb.WriteString(dimStyle.Render("  Loading…") + "\n")
	default:
		u := p.user
		row(&sb, "Username:", u.Username)
		row(&sb, "Email:", u.Email)
		row(&sb, "Age:", strconv.Itoa(u.Age))
		row(&sb, "Weight:", strconv.FormatFloat(u.Weight, 'f', -1, 64)+" kg")
		row(&sb, "Gender:", u.Gender)
	}
	sb.WriteString("\n" + dimStyle.Render("  ctrl+o to log out") + "\n")
	return sb.String()
}
