package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/workout"
)

type composeFocus int

const (
	focusName composeFocus = iota
	focusDate
	focusPreset
	focusExercises
	focusCount
)

// composeView is the new-workout page. Duration text is kept per exercise
// so partial input survives re-renders.
type composeView struct {
	name   textinput.Model
	date   textinput.Model
	focus  composeFocus
	preset int
	cursor int
	raw    map[int]string
}

func newComposeView() composeView {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Workout name"
	name.CharLimit = 80
	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	return composeView{name: name, date: date, raw: map[int]string{}}
}

func (v *composeView) focusCurrent() tea.Cmd {
	v.name.Blur()
	v.date.Blur()
	switch v.focus {
	case focusName:
		return v.name.Focus()
	case focusDate:
		return v.date.Focus()
	}
	return nil
}

// sync copies the composer's draft into the inputs.
func (v *composeView) sync(c *workout.Composer) {
	v.name.SetValue(c.Name())
	v.date.SetValue(c.Date())
	v.raw = map[int]string{}
	for _, s := range c.Selected() {
		v.raw[s.ExerciseID] = s.Duration.String()
	}
	if n := c.Catalog().Len(); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (m *Model) composeKey(msg tea.KeyMsg) tea.Cmd {
	v := &m.compose
	c := m.composer

	switch msg.String() {
	case "tab":
		v.focus = (v.focus + 1) % focusCount
		return v.focusCurrent()
	case "shift+tab":
		v.focus = (v.focus - 1 + focusCount) % focusCount
		return v.focusCurrent()
	case "ctrl+s":
		return m.submitWorkout()
	case "ctrl+t":
		v.date.SetValue(time.Now().Format("2006-01-02"))
		c.SetDate(v.date.Value())
		return nil
	}

	switch v.focus {
	case focusName:
		var cmd tea.Cmd
		v.name, cmd = v.name.Update(msg)
		if v.name.Value() != c.Name() {
			c.SetName(v.name.Value())
		}
		return cmd

	case focusDate:
		var cmd tea.Cmd
		v.date, cmd = v.date.Update(msg)
		if v.date.Value() != c.Date() {
			c.SetDate(v.date.Value())
		}
		return cmd

	case focusPreset:
		switch msg.String() {
		case "left", "h":
			v.preset = (v.preset - 1 + len(workout.Presets)) % len(workout.Presets)
		case "right", "l":
			v.preset = (v.preset + 1) % len(workout.Presets)
		case "enter", " ":
			if err := c.SelectPreset(workout.Presets[v.preset].Label); err != nil {
				m.board.Post(notice.Failure, err.Error())
				return nil
			}
			v.sync(c)
			m.board.Post(notice.Info, fmt.Sprintf("Loaded %s: %d exercises.", workout.Presets[v.preset].Label, len(c.Selected())))
		}
		return nil

	case focusExercises:
		all := c.Catalog().All()
		if len(all) == 0 {
			return nil
		}
		id := all[v.cursor].ID
		switch msg.Type {
		case tea.KeyUp:
			if v.cursor > 0 {
				v.cursor--
			}
		case tea.KeyDown:
			if v.cursor < len(all)-1 {
				v.cursor++
			}
		case tea.KeySpace, tea.KeyEnter:
			c.ToggleExercise(id)
			if !c.IsSelected(id) {
				delete(v.raw, id)
			}
		case tea.KeyBackspace:
			if s := v.raw[id]; s != "" && c.IsSelected(id) {
				r := []rune(s)
				v.raw[id] = string(r[:len(r)-1])
				c.SetDuration(id, v.raw[id])
			}
		case tea.KeyRunes:
			if c.IsSelected(id) {
				v.raw[id] += string(msg.Runes)
				c.SetDuration(id, v.raw[id])
			}
		}
	}
	return nil
}

func (m *Model) submitWorkout() tea.Cmd {
	p, err := m.composer.BeginSubmit()
	if err != nil {
		var verr *workout.ValidationError
		switch {
		case errors.As(err, &verr):
			m.board.Post(notice.Failure, strings.Join(verr.Problems, "; "))
		case errors.Is(err, workout.ErrBusy):
			m.board.Post(notice.Info, "Still saving your workout, hang on.")
		case errors.Is(err, workout.ErrSessionExpired):
			// the session check in Update routes an expired session to login
		default:
			m.board.Post(notice.Failure, err.Error())
		}
		return nil
	}
	return createCmd(m.root, m.client, p)
}

func (m *Model) updateCompose(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(createdMsg); ok {
		m.composer.FinishSubmit(msg.err)
		if msg.err == nil {
			m.compose.sync(m.composer)
		}
	}
	return nil
}

func (v *composeView) render(c *workout.Composer, width int) string {
	var sb strings.Builder
	sb.WriteString(heading("Log a Workout"))

	marker := func(f composeFocus) string {
		if v.focus == f {
			return bulletStyle.Render("▸ ")
		}
		return "  "
	}
	fmt.Fprintf(&sb, "  %s%s  %s\n\n", marker(focusName), labelStyle.Render(fmt.Sprintf("%-10s", "Name")), v.name.View())
	fmt.Fprintf(&sb, "  %s%s  %s\n\n", marker(focusDate), labelStyle.Render(fmt.Sprintf("%-10s", "Date")), v.date.View())
	fmt.Fprintf(&sb, "  %s%s  ‹ %s ›  %s\n",
		marker(focusPreset), labelStyle.Render(fmt.Sprintf("%-10s", "Preset")),
		workout.Presets[v.preset].Label, dimStyle.Render("enter to apply"))

	sb.WriteString(heading(fmt.Sprintf("Exercises (%d selected)", len(c.Selected()))))
	all := c.Catalog().All()
	if len(all) == 0 {
		sb.WriteString(dimStyle.Render("  (no exercises available, the catalog could not be loaded)") + "\n")
	}
	for i, e := range all {
		check := "[ ]"
		dur := ""
		if c.IsSelected(e.ID) {
			check = "[x]"
			raw := v.raw[e.ID]
			if raw == "" {
				raw = "__"
			}
			dur = raw + " min"
		}
		line := fmt.Sprintf("  %s %-28s %s", check, e.Name, dur)
		if v.focus == focusExercises && i == v.cursor {
			line = selectedRowStyle.Width(max(width-2, 0)).Render(line)
		} else if e.Category != "" {
			line += dimStyle.Render("  " + e.Category)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	switch c.State() {
	case workout.StateSubmitting:
		sb.WriteString(dimStyle.Render("  Saving…") + "\n")
	case workout.StateEditing:
		sb.WriteString(dimStyle.Render("  ctrl+s to save this workout") + "\n")
	}
	return sb.String()
}
