package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/workout"
)

// historyView is the workout list with inline editing. While a draft is
// open its fields are text inputs: name, date, then one per exercise.
type historyView struct {
	cursor    int
	loading   bool
	confirmID int

	inputs []textinput.Model
	focus  int
}

func (v *historyView) editing(e *workout.Editor) bool {
	_, ok := e.State().(workout.Editing)
	return ok
}

func (v *historyView) open(d *workout.EditDraft) tea.Cmd {
	newInput := func(value string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = limit
		in.SetValue(value)
		return in
	}
	v.inputs = []textinput.Model{newInput(d.Name, 80), newInput(d.Date, 25)}
	for _, e := range d.Exercises {
		v.inputs = append(v.inputs, newInput(e.Duration.String(), 6))
	}
	v.focus = 0
	return v.inputs[0].Focus()
}

func (v *historyView) setFocus(i int) tea.Cmd {
	v.inputs[v.focus].Blur()
	v.focus = i
	return v.inputs[i].Focus()
}

func (m *Model) historyKey(msg tea.KeyMsg) tea.Cmd {
	v := &m.history
	e := m.editor
	records := e.Records()

	if v.confirmID != 0 {
		id := v.confirmID
		switch msg.String() {
		case "y", "Y":
			v.confirmID = 0
			if err := e.BeginDelete(); err != nil {
				return nil
			}
			return deleteCmd(m.root, m.client, id)
		case "n", "N", "esc":
			v.confirmID = 0
		}
		return nil
	}

	if cur, ok := e.State().(workout.Editing); ok {
		switch msg.String() {
		case "esc":
			e.Cancel()
			v.inputs = nil
			return nil
		case "tab", "down":
			return v.setFocus((v.focus + 1) % len(v.inputs))
		case "shift+tab", "up":
			return v.setFocus((v.focus - 1 + len(v.inputs)) % len(v.inputs))
		case "ctrl+s":
			return m.saveWorkout(cur.RecordID)
		}
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		val := v.inputs[v.focus].Value()
		switch v.focus {
		case 0:
			_ = e.UpdateName(val)
		case 1:
			_ = e.UpdateDate(val)
		default:
			_ = e.UpdateExerciseDuration(v.focus-2, val)
		}
		return cmd
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(records)-1 {
			v.cursor++
		}
	case "r":
		return m.enterCmd()
	case "enter", "e":
		if len(records) > 0 {
			e.BeginEdit(records[v.cursor])
			cur := e.State().(workout.Editing)
			return v.open(cur.Draft)
		}
	case "d", "delete":
		if len(records) > 0 {
			v.confirmID = records[v.cursor].ID
		}
	}
	return nil
}

func (m *Model) saveWorkout(id int) tea.Cmd {
	p, err := m.editor.BeginSave(id)
	if err != nil {
		var verr *workout.ValidationError
		switch {
		case errors.As(err, &verr):
			m.board.Post(notice.Failure, strings.Join(verr.Problems, "; "))
		case errors.Is(err, workout.ErrBusy):
			m.board.Post(notice.Info, "Still saving the previous change, try again in a moment.")
		case errors.Is(err, workout.ErrSessionExpired):
		default:
			m.board.Post(notice.Failure, err.Error())
		}
		return nil
	}
	return updateCmd(m.root, m.client, id, p)
}

func (m *Model) updateHistory(msg tea.Msg) tea.Cmd {
	v := &m.history
	switch msg := msg.(type) {
	case workoutsMsg:
		if m.stale(msg.visit) {
			return nil
		}
		v.loading = false
		m.editor.ApplyLoad(msg.records, msg.err)

	case updatedMsg:
		if m.editor.FinishSave(msg.id, msg.err) {
			if !v.editing(m.editor) {
				v.inputs = nil
			}
			if m.page == pageHistory {
				v.loading = true
				return workoutsCmd(m.ctx, m.visit, m.client)
			}
		}

	case deletedMsg:
		m.editor.FinishDelete(msg.id, msg.err)
		if !v.editing(m.editor) {
			v.inputs = nil
		}
	}
	if n := len(m.editor.Records()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
	return nil
}

func (v *historyView) render(e *workout.Editor, width int) string {
	var sb strings.Builder
	records := e.Records()
	sb.WriteString(heading(fmt.Sprintf("Workout History (%d)", len(records))))
	if v.loading && len(records) == 0 {
		sb.WriteString(dimStyle.Render("  Loading…") + "\n")
		return sb.String()
	}
	if len(records) == 0 {
		sb.WriteString(dimStyle.Render("  (no workouts yet, log one on the New Workout page)") + "\n")
		return sb.String()
	}

	editingID := 0
	if cur, ok := e.State().(workout.Editing); ok {
		editingID = cur.RecordID
	}

	for i, r := range records {
		line := fmt.Sprintf("  %s  %-28s %4d min", dateStyle.Render(r.Date), r.Name, r.TotalDuration)
		if i == v.cursor {
			line = selectedRowStyle.Width(max(width-2, 0)).Render(line)
		}
		sb.WriteString(line + "\n")

		if r.ID == editingID && len(v.inputs) >= 2 {
			v.renderEditor(&sb, e.State().(workout.Editing).Draft)
			continue
		}
		var parts []string
		for _, ex := range r.Exercises {
			parts = append(parts, fmt.Sprintf("%s %d min", ex.Name, ex.Duration))
		}
		if len(parts) > 0 {
			sb.WriteString(dimStyle.Render("      "+strings.Join(parts, " · ")) + "\n")
		}
		if r.ID == v.confirmID {
			sb.WriteString(bullet(workout.DeletePrompt + " (y/n)"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (v *historyView) renderEditor(sb *strings.Builder, d *workout.EditDraft) {
	input := func(i int, label string) {
		marker := "  "
		if i == v.focus {
			marker = bulletStyle.Render("▸ ")
		}
		fmt.Fprintf(sb, "      %s%s  %s\n", marker, labelStyle.Render(fmt.Sprintf("%-24s", label)), v.inputs[i].View())
	}
	input(0, "Name")
	input(1, "Date")
	for i, ex := range d.Exercises {
		if i+2 < len(v.inputs) {
			input(i+2, ex.Name+" (min)")
		}
	}
	sb.WriteString("\n")
}
