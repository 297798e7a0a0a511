package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical list of labelled text inputs with one focused.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
	busy   bool
}

func newForm(fields ...field) form {
	f := form{}
	for _, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.Prompt = ""
		in.CharLimit = 128
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
	return cmd
}

func (f *form) focusFirst() tea.Cmd { return f.setFocus(0) }

func (f *form) next() tea.Cmd { return f.setFocus((f.focus + 1) % len(f.inputs)) }

func (f *form) prev() tea.Cmd { return f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs)) }

func (f *form) onLast() bool { return f.focus == len(f.inputs)-1 }

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *form) set(i int, v string) { f.inputs[i].SetValue(v) }

func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.busy = false
}

func (f *form) render(sb *strings.Builder) {
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = bulletStyle.Render("▸ ")
		}
		fmt.Fprintf(sb, "  %s%s  %s\n\n", marker, labelStyle.Render(fmt.Sprintf("%-10s", f.labels[i])), in.View())
	}
	if f.busy {
		sb.WriteString(dimStyle.Render("  Working…") + "\n")
	}
}
